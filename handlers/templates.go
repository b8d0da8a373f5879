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

// GetTemplates lists every template, newest first. The store returns them
// unordered; sorting is this layer's job.
func GetTemplates(w http.ResponseWriter, r *http.Request) {
	s := store.New(config.DB)
	ts, err := s.GetTemplates()
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].CreatedAt > ts[j].CreatedAt })
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ts)
}

// SaveTemplate creates or fully overwrites a template.
func SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.Template
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if t.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if t.ID == "" {
		t.ID = models.NewID()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = models.NowMillis()
	}
	s := store.New(config.DB)
	if err := s.SaveTemplate(&t); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// DeleteTemplate removes a template by id. Reports referencing it keep
// their templateId and render a "template missing" sentinel from then on.
func DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := store.New(config.DB)
	if err := s.DeleteTemplate(id); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
