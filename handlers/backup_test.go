package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"p9e.in/omreport/config"
	"p9e.in/omreport/models"
	"p9e.in/omreport/store"
)

func setupTestDB(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := config.Migrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	config.DB = db
	return store.New(db)
}

func TestImportBackupRequiresBothKeys(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing templates", `{"version":1,"timestamp":"2025-07-20T10:00:00Z","reports":[]}`, http.StatusBadRequest},
		{"missing reports", `{"version":1,"timestamp":"2025-07-20T10:00:00Z","templates":[]}`, http.StatusBadRequest},
		{"missing both", `{"version":1,"timestamp":"2025-07-20T10:00:00Z"}`, http.StatusBadRequest},
		{"not JSON at all", `version=1`, http.StatusBadRequest},
		{"both present but empty", `{"version":1,"timestamp":"2025-07-20T10:00:00Z","reports":[],"templates":[]}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/backup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			ImportBackup(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, expected %d (%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestBackupExportImportRoundTrip(t *testing.T) {
	s := setupTestDB(t)

	tpl := &models.Template{ID: "t1", Title: "Weekly check", ActivityExecuted: "default", CreatedAt: 1}
	if err := s.SaveTemplate(tpl); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	rep := &models.Report{
		ID: "r1", TemplateID: "t1", Equipment: "Pump 1", CreatedAt: 2,
		Photos: models.PhotoList{{ID: "p1", Base64: "data:image/jpeg;base64,AAAA", Caption: "before"}},
	}
	if err := s.SaveReport(rep); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	rr := httptest.NewRecorder()
	ExportBackup(rr, httptest.NewRequest("GET", "/api/v1/backup", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}
	var doc struct {
		Version   int               `json:"version"`
		Timestamp string            `json:"timestamp"`
		Reports   []models.Report   `json:"reports"`
		Templates []models.Template `json:"templates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("export body: %v", err)
	}
	if doc.Version != 1 || doc.Timestamp == "" {
		t.Errorf("document header: version=%d timestamp=%q", doc.Version, doc.Timestamp)
	}
	if len(doc.Reports) != 1 || len(doc.Templates) != 1 {
		t.Fatalf("export incomplete: %d reports, %d templates", len(doc.Reports), len(doc.Templates))
	}

	// Clear, then restore from the exported document.
	if err := s.DeleteReport("r1"); err != nil {
		t.Fatalf("clear report: %v", err)
	}
	if err := s.DeleteTemplate("t1"); err != nil {
		t.Fatalf("clear template: %v", err)
	}

	rr2 := httptest.NewRecorder()
	ImportBackup(rr2, httptest.NewRequest("POST", "/api/v1/backup", bytes.NewReader(rr.Body.Bytes())))
	if rr2.Code != http.StatusOK {
		t.Fatalf("import status = %d (%s)", rr2.Code, rr2.Body.String())
	}

	got, err := s.GetReport("r1")
	if err != nil || got == nil {
		t.Fatalf("report not restored: %v, %v", got, err)
	}
	if got.Equipment != "Pump 1" || len(got.Photos) != 1 || got.Photos[0].Caption != "before" {
		t.Errorf("report not restored field-for-field: %+v", got)
	}
	gotTpl, err := s.GetTemplate("t1")
	if err != nil || gotTpl == nil {
		t.Fatalf("template not restored: %v, %v", gotTpl, err)
	}
	if gotTpl.ActivityExecuted != "default" {
		t.Errorf("template not restored: %+v", gotTpl)
	}
}
