package model

// ItemType tells catalog entries apart in the combined listing.
type ItemType string

const (
	ItemTypeResource    ItemType = "resource"
	ItemTypeInstruction ItemType = "instruction"
	ItemTypeSoftware    ItemType = "software"
)

// Item is one entry of the combined catalog listing.
// Fields that do not apply to a type are left nil.
type Item struct {
	ID          uint     `json:"id"`
	Type        ItemType `json:"type"`
	CategoryID  uint     `json:"category_id"`
	Name        string   `json:"name"`
	Service     *string  `json:"service"`
	URL         *string  `json:"url"`
	Content     *string  `json:"content,omitempty"`
	Description *string  `json:"description,omitempty"`
	FilePath    *string  `json:"file_path,omitempty"`
}
