package model

import "time"

// Image is an uploaded picture referenced from instruction content by URL.
type Image struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Filename     string    `json:"filename" gorm:"size:255;not null;uniqueIndex"`
	OriginalName string    `json:"originalname" gorm:"size:255"`
	ContentType  string    `json:"content_type" gorm:"size:127"`
	Size         int64     `json:"size"`
	FilePath     string    `json:"-" gorm:"size:1024;not null"`
	URL          string    `json:"url" gorm:"column:url;size:2048;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (Image) TableName() string {
	return "images"
}
