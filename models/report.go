package models

import (
	"fmt"
	"slices"
)

const (
	ActivityPreventiva = "Preventiva"
	ActivityCorretiva  = "Corretiva"

	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

// Teams and WorkCenters are closed sets. Values outside them are a
// validation error for the client surface, never a store concern.
var (
	Teams       = []string{"A", "B", "C", "D"}
	WorkCenters = []string{"SC108HH", "SC118HH", "SC103HH", "SC105HH", "SC117HH"}
)

// Report is one filled-in maintenance execution record. TemplateID is a
// lookup key only, never an ownership edge: it may dangle after the
// template is deleted and readers must resolve it with an explicit miss.
type Report struct {
	ID                   string    `gorm:"primaryKey;size:48" json:"id"`
	TemplateID           string    `gorm:"index;size:48" json:"templateId"`
	Date                 string    `gorm:"size:16" json:"date"`
	Equipment            string    `gorm:"size:255" json:"equipment"`
	OMNumber             string    `gorm:"size:64" json:"omNumber"`
	ActivityType         string    `gorm:"size:16" json:"activityType"`
	ActivityExecuted     string    `gorm:"type:text" json:"activityExecuted"`
	StartTime            string    `gorm:"size:8" json:"startTime"`
	EndTime              string    `gorm:"size:8" json:"endTime"`
	IamoDeviation        bool      `json:"iamoDeviation"`
	IamoDeviationDetails string    `gorm:"type:text" json:"iamoDeviationDetails"`
	OMFinished           bool      `json:"omFinished"`
	Pendings             bool      `json:"pendings"`
	PendingDetails       string    `gorm:"type:text" json:"pendingDetails"`
	Team                 string    `gorm:"size:8" json:"team"`
	WorkCenter           string    `gorm:"size:16" json:"workCenter"`
	Technicians          string    `gorm:"type:text" json:"technicians"`
	Photos               PhotoList `gorm:"type:json" json:"photos"`
	Status               string    `gorm:"size:16" json:"status"`
	CreatedAt            Millis    `json:"createdAt"`
	UpdatedAt            Millis    `json:"updatedAt,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

// Validate enforces the completed-report invariant: a completed report has
// the identifying fields filled in. Drafts save with anything in them.
func (r *Report) Validate() error {
	if r.Status != StatusCompleted {
		return nil
	}
	if r.OMNumber == "" || r.Equipment == "" || r.Technicians == "" {
		return fmt.Errorf("completed report requires omNumber, equipment and technicians")
	}
	return nil
}

// ValidTeam reports whether s is one of the closed team set.
func ValidTeam(s string) bool {
	return slices.Contains(Teams, s)
}

// ValidWorkCenter reports whether s is one of the closed work-center set.
func ValidWorkCenter(s string) bool {
	return slices.Contains(WorkCenters, s)
}
