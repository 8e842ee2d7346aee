package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile defaults applied when a new account omits them.
const (
	DefaultName   = "Жак-Ив Кусто"
	DefaultAbout  = "Исследователь"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"_id"`
	Name      string    `gorm:"size:30;not null" json:"name"`
	About     string    `gorm:"size:30;not null" json:"about"`
	Avatar    string    `gorm:"not null" json:"avatar"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // Don't expose password hash
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns an id to records that arrive without one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
