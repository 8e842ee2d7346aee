package services

import (
	"context"

	"mesto-restful/apperr"
	"mesto-restful/auth"
	"mesto-restful/metrics"
	"mesto-restful/models"
	"mesto-restful/repositories"

	"github.com/google/uuid"
)

// CardService covers the card collection and its likes.
type CardService interface {
	ListCards(ctx context.Context) ([]models.Card, error)
	CreateCard(ctx context.Context, owner uuid.UUID, input *CreateCardInput) (*models.Card, error)
	DeleteCard(ctx context.Context, rawID string, actor uuid.UUID) error
	LikeCard(ctx context.Context, rawID string, actor uuid.UUID) (*models.Card, error)
	UnlikeCard(ctx context.Context, rawID string, actor uuid.UUID) (*models.Card, error)
}

type cardService struct {
	repo    repositories.CardRepository
	metrics *metrics.Metrics
}

var _ CardService = (*cardService)(nil)

// NewCardService creates a CardService. m may be nil.
func NewCardService(repo repositories.CardRepository, m *metrics.Metrics) CardService {
	return &cardService{repo: repo, metrics: m}
}

func (s *cardService) ListCards(ctx context.Context) ([]models.Card, error) {
	return s.repo.FindAll(ctx)
}

// CreateCard stores a card owned by owner. Ownership is fixed from here on.
func (s *cardService) CreateCard(ctx context.Context, owner uuid.UUID, input *CreateCardInput) (*models.Card, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &models.Card{
		Name:    input.Name,
		Link:    input.Link,
		OwnerID: owner,
	})
}

// DeleteCard removes a card if actor owns it. Checks run in order:
// malformed id, missing card, foreign card, then the delete itself.
func (s *cardService) DeleteCard(ctx context.Context, rawID string, actor uuid.UUID) error {
	id, err := ParseID(rawID, "card")
	if err != nil {
		return err
	}

	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanMutate(actor, card.OwnerID) {
		return apperr.Forbidden("You can only delete your own cards")
	}

	return s.repo.DeleteByID(ctx, id)
}

func (s *cardService) LikeCard(ctx context.Context, rawID string, actor uuid.UUID) (*models.Card, error) {
	return s.toggle(ctx, rawID, actor, metrics.OpLike, s.repo.AddLike)
}

func (s *cardService) UnlikeCard(ctx context.Context, rawID string, actor uuid.UUID) (*models.Card, error) {
	return s.toggle(ctx, rawID, actor, metrics.OpUnlike, s.repo.RemoveLike)
}

// toggle applies one atomic set operation and returns the card as it is afterwards.
func (s *cardService) toggle(ctx context.Context, rawID string, actor uuid.UUID, op string,
	apply func(ctx context.Context, cardID, userID uuid.UUID) error) (*models.Card, error) {
	id, err := ParseID(rawID, "card")
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := apply(ctx, id, actor); err != nil {
		return nil, err
	}
	s.metrics.RecordLikeToggle(op)

	// A card deleted between the toggle and this read is reported as NotFound.
	return s.repo.FindByID(ctx, id)
}
