package repositories

import (
	"context"
	"errors"

	"mesto-restful/apperr"
	"mesto-restful/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardRepository reads and writes cards. Every card it returns has Owner and
// Likes resolved.
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	FindAll(ctx context.Context) ([]models.Card, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	AddLike(ctx context.Context, cardID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, cardID, userID uuid.UUID) error
}

type cardRepository struct {
	db *gorm.DB
}

var _ CardRepository = (*cardRepository)(nil)

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Owner").Preload("Likes")
}

// Create stores card without touching its associations, then reloads it populated.
func (r *cardRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(card).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, card.ID)
}

func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := r.populated(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, notFound(err, "Card not found")
	}
	if card.Likes == nil {
		card.Likes = []models.User{}
	}
	return &card, nil
}

// FindAll returns every card, newest first.
func (r *cardRepository) FindAll(ctx context.Context) ([]models.Card, error) {
	cards := []models.Card{}
	if err := r.populated(ctx).Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].Likes == nil {
			cards[i].Likes = []models.User{}
		}
	}
	return cards, nil
}

// DeleteByID removes a card and its likes. Deleting nothing is NotFound, so a
// concurrent delete never reads as success.
func (r *cardRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", id).Delete(&models.CardLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Card{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("Card not found")
		}
		return nil
	})
}

// AddLike puts userID into the card's likes set in a single statement.
// Adding an existing member is a no-op.
func (r *cardRepository) AddLike(ctx context.Context, cardID, userID uuid.UUID) error {
	like := &models.CardLike{CardID: cardID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		// card deleted concurrently
		return apperr.NotFound("Card not found")
	}
	return err
}

// RemoveLike takes userID out of the card's likes set. Removing a non-member is a no-op.
func (r *cardRepository) RemoveLike(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("card_id = ? AND user_id = ?", cardID, userID).
		Delete(&models.CardLike{}).Error
}
