package models

// User is the local credential record for a device. The password is stored
// as typed: login is an offline convenience check, not a security boundary,
// and the product explicitly accepts that.
type User struct {
	Username  string `gorm:"primaryKey;size:100" json:"username"`
	Password  string `gorm:"size:255;not null" json:"password"`
	CreatedAt Millis `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
