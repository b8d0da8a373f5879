package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"p9e.in/omreport/config"
	"p9e.in/omreport/models"
	"p9e.in/omreport/store"
)

// GetAllReports lists every report, newest first.
func GetAllReports(w http.ResponseWriter, r *http.Request) {
	s := store.New(config.DB)
	rs, err := s.GetAllReports()
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].CreatedAt > rs[j].CreatedAt })
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rs)
}

// GetReport loads one report for the edit screen. A store miss maps to 404
// here; the store itself never errors for not-found.
func GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := store.New(config.DB)
	rep, err := s.GetReport(id)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

// SaveReport upserts a draft or completed report. Required-field
// validation applies only when status is completed.
func SaveReport(w http.ResponseWriter, r *http.Request) {
	var rep models.Report
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if id := mux.Vars(r)["id"]; id != "" {
		rep.ID = id
	}
	if rep.ID == "" {
		rep.ID = models.NewID()
	}
	s := store.New(config.DB)
	// A body without createdAt must not reset the stored creation time when
	// the upsert overwrites an existing row.
	if rep.CreatedAt == 0 {
		existing, err := s.GetReport(rep.ID)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if existing != nil {
			rep.CreatedAt = existing.CreatedAt
		}
	}
	if rep.CreatedAt == 0 {
		rep.CreatedAt = models.NowMillis()
	}
	if rep.Team != "" && !models.ValidTeam(rep.Team) {
		http.Error(w, "unknown team", http.StatusBadRequest)
		return
	}
	if rep.WorkCenter != "" && !models.ValidWorkCenter(rep.WorkCenter) {
		http.Error(w, "unknown work center", http.StatusBadRequest)
		return
	}
	if err := rep.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.SaveReport(&rep); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

// DeleteReport removes a report and, with it, every photo it owns.
func DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := store.New(config.DB)
	if err := s.DeleteReport(id); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
