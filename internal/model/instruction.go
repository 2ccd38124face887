package model

// Instruction is an HTML document attached to a category.
type Instruction struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"size:255;not null;index"`
	Content    string `json:"content" gorm:"type:text;not null"`
	CategoryID uint   `json:"category_id" gorm:"not null;index"`

	// Filled by joined reads only.
	CategoryName *string `json:"category_name,omitempty" gorm:"->;-:migration"`
}

// TableName keeps the historical table name.
func (Instruction) TableName() string {
	return "instructions"
}
