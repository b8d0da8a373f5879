package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"p9e.in/omreport/config"
	"p9e.in/omreport/models"
	"p9e.in/omreport/store"
)

// backupVersion is the current backup document format.
const backupVersion = 1

type backupFile struct {
	Version   int               `json:"version"`
	Timestamp string            `json:"timestamp"`
	Reports   []models.Report   `json:"reports"`
	Templates []models.Template `json:"templates"`
}

// ExportBackup writes every report and template into one backup document.
// Both arrays are always present, possibly empty.
func ExportBackup(w http.ResponseWriter, r *http.Request) {
	s := store.New(config.DB)
	reports, err := s.GetAllReports()
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	templates, err := s.GetTemplates()
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	if templates == nil {
		templates = []models.Template{}
	}

	doc := backupFile{
		Version:   backupVersion,
		Timestamp: time.Now().Format(time.RFC3339),
		Reports:   reports,
		Templates: templates,
	}

	filename := fmt.Sprintf("omreport_backup_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	json.NewEncoder(w).Encode(doc)
}

// ImportBackup restores a backup document. Both the reports and templates
// keys must be present (each may be empty); a partial failure leaves the
// succeeding items committed and reports a conflict.
func ImportBackup(w http.ResponseWriter, r *http.Request) {
	var doc struct {
		Version   int                `json:"version"`
		Timestamp string             `json:"timestamp"`
		Reports   *[]models.Report   `json:"reports"`
		Templates *[]models.Template `json:"templates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if doc.Reports == nil || doc.Templates == nil {
		http.Error(w, "backup file must contain reports and templates", http.StatusBadRequest)
		return
	}

	s := store.New(config.DB)
	err := s.ImportBackup(*doc.Reports, *doc.Templates)
	if errors.Is(err, store.ErrPartialImport) {
		// The successes stayed committed; tell the caller anyway.
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"reports":   len(*doc.Reports),
		"templates": len(*doc.Templates),
	})
}
