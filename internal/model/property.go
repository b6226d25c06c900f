package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Property is a real-estate listing owned by a single user
type Property struct {
	ID           uint      `json:"_id" gorm:"primarykey"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null;index"`
	TitleKey     string    `json:"-" gorm:"type:varchar(255);index"`
	Description  string    `json:"description" gorm:"type:text"`
	PropertyType string    `json:"propertyType" gorm:"type:varchar(100);index"`
	Location     string    `json:"location" gorm:"type:varchar(255)"`
	Price        float64   `json:"price"`
	Photo        string    `json:"photo" gorm:"type:text"`
	CreatorID    uint      `json:"creatorId" gorm:"index;not null"`
	Creator      *User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SearchKey folds text for case-insensitive title matching.
// TitleKey always holds SearchKey(Title).
func SearchKey(title string) string {
	return strings.ToLower(title)
}

// BeforeSave keeps TitleKey in step with Title on create and save
func (p *Property) BeforeSave(tx *gorm.DB) error {
	p.TitleKey = SearchKey(p.Title)
	return nil
}
