package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card is a titled image link. Owner and Likes are only populated when loaded through the card store.
type Card struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"_id"`
	Name      string    `gorm:"size:30;not null" json:"name"`
	Link      string    `gorm:"not null" json:"link"`
	OwnerID   uuid.UUID `gorm:"type:char(36);not null;index" json:"-"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"owner"`
	Likes     []User    `gorm:"many2many:card_likes;" json:"likes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (c *Card) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CardLike is one row of the likes set. The composite primary key keeps each
// (card, user) pair unique, which is what makes like idempotent.
type CardLike struct {
	CardID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
}

func (CardLike) TableName() string {
	return "card_likes"
}

// LikedBy reports whether userID is in the card's likes.
func (c *Card) LikedBy(userID uuid.UUID) bool {
	for _, u := range c.Likes {
		if u.ID == userID {
			return true
		}
	}
	return false
}
