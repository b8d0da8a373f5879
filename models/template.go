package models

// Template is a reusable report skeleton: fixed OM boilerplate plus a
// default activity description. Read-only after creation except full
// overwrite. Deleting a template never touches reports that reference it;
// those keep their templateId as a dangling lookup key.
type Template struct {
	ID               string `gorm:"primaryKey;size:32" json:"id"`
	Title            string `gorm:"size:255;not null" json:"title"`
	OMDescription    string `gorm:"type:text" json:"omDescription"`
	ActivityExecuted string `gorm:"type:text" json:"activityExecuted"`
	CreatedAt        Millis `gorm:"not null" json:"createdAt"`
}

func (Template) TableName() string {
	return "templates"
}
