package models

import "gorm.io/datatypes"

// Setting is one key/value row for process-wide configuration, e.g. the
// photo quality policy.
type Setting struct {
	Key   string         `gorm:"primaryKey;size:64" json:"key"`
	Value datatypes.JSON `gorm:"type:json;not null" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}
