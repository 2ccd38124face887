package model

// Resource is a link to an external service.
type Resource struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"size:255;not null"`
	Service    string `json:"service" gorm:"size:255"`
	URL        string `json:"url" gorm:"column:url;size:2048;not null"`
	CategoryID uint   `json:"category_id" gorm:"not null;index"`
}

// TableName keeps the historical table name.
func (Resource) TableName() string {
	return "resources"
}
