package model

// Category groups resources, instructions and software.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;not null;uniqueIndex"`
}

// TableName keeps the historical table name.
func (Category) TableName() string {
	return "categories"
}
