package model

import "time"

// Software is a downloadable package whose binary lives in the artifact store.
type Software struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	FilePath    *string   `json:"file_path" gorm:"size:1024"`
	Version     uint      `json:"-" gorm:"not null;default:1"` // optimistic lock for replace/delete
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (Software) TableName() string {
	return "software"
}
