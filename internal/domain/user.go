package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleTeknisi = "teknisi"
)

// User lives in the operational MySQL store. Rows are never deleted
// through the API; only refresh_token mutates after registration.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nama         string    `gorm:"size:100;not null" json:"nama"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:user" json:"role"`
	RefreshToken *string   `gorm:"column:refresh_token;type:text" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Pelapor is the reporter projection joined onto laporan rows: public
// fields only, same table.
type Pelapor struct {
	ID    uint   `json:"id"`
	Nama  string `json:"nama"`
	Email string `json:"email"`
}

func (Pelapor) TableName() string { return "users" }
