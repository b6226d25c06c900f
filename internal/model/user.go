package model

import "time"

// User owns zero or more properties
type User struct {
	ID        uint      `json:"_id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Avatar    string    `json:"avatar" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// AllProperties is filled from UserProperty rows in insertion order
	AllProperties []Property `json:"allProperties" gorm:"-"`
}

// UserProperty is the stored reverse reference from a user to a property it owns.
// Rows are written in the same transaction as the property they point to.
type UserProperty struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_property"`
	PropertyID uint      `json:"property_id" gorm:"not null;uniqueIndex:idx_user_property;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for UserProperty
func (UserProperty) TableName() string {
	return "user_properties"
}

// All returns every persisted model in migration order
func All() []interface{} {
	return []interface{}{&User{}, &Property{}, &UserProperty{}}
}
