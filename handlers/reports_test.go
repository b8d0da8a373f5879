package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"p9e.in/omreport/models"
)

func TestSaveReportPreservesCreatedAt(t *testing.T) {
	s := setupTestDB(t)

	seed := &models.Report{ID: "r1", Equipment: "Pump 1", CreatedAt: 1720000000000}
	if err := s.SaveReport(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Update body carries no createdAt at all.
	req := httptest.NewRequest("PUT", "/api/v1/reports/r1", strings.NewReader(`{"equipment":"Pump 2"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "r1"})
	rr := httptest.NewRecorder()
	SaveReport(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}

	got, err := s.GetReport("r1")
	if err != nil || got == nil {
		t.Fatalf("get: %v, %v", got, err)
	}
	if got.Equipment != "Pump 2" {
		t.Errorf("update lost, equipment = %q", got.Equipment)
	}
	if got.CreatedAt != 1720000000000 {
		t.Errorf("createdAt must survive an update that omits it, got %d", got.CreatedAt)
	}
}
