package model

// Account is an administrator allowed to use the admin API.
// Accounts are provisioned out-of-band (cmd/seed) and never changed by the service.
type Account struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"size:255;not null;uniqueIndex"`
	Password string `json:"-" gorm:"column:password;size:255;not null"` // bcrypt or argon2id hash, never exposed
}

// TableName keeps the historical table name.
func (Account) TableName() string {
	return "admins"
}
