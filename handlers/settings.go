package handlers

import (
	"encoding/json"
	"net/http"

	"p9e.in/omreport/config"
	"p9e.in/omreport/pkg/imaging"
	"p9e.in/omreport/store"
)

type qualityPayload struct {
	Quality string `json:"quality"`
}

// GetQuality returns the effective photo quality tier.
func GetQuality(w http.ResponseWriter, r *http.Request) {
	s := store.New(config.DB)
	var name string
	if _, err := s.GetSetting(store.SettingQualityPolicy, &name); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(qualityPayload{Quality: imaging.PolicyFor(name).Name})
}

// SetQuality persists the process-wide quality tier.
func SetQuality(w http.ResponseWriter, r *http.Request) {
	var req qualityPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	switch req.Quality {
	case "high", "medium", "low":
	default:
		http.Error(w, "quality must be high, medium or low", http.StatusBadRequest)
		return
	}
	s := store.New(config.DB)
	if err := s.SaveSetting(store.SettingQualityPolicy, req.Quality); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}
