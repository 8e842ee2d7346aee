package services

import (
	"context"
	"strings"
	"sync"

	"mesto-restful/apperr"
	"mesto-restful/auth"
	"mesto-restful/models"
	"mesto-restful/repositories"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// CredentialsMessage is returned for every failed sign-in, whatever the reason.
const CredentialsMessage = "Incorrect email or password"

// The UserService interface defines the methods that user services need to implement
type UserService interface {
	Register(ctx context.Context, input *SignUpInput) (*models.User, error)
	Authenticate(ctx context.Context, input *SignInInput) (string, *models.User, error)
	GetUserByID(ctx context.Context, rawID string) (*models.User, error)
	GetCurrentUser(ctx context.Context, actor uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, actor uuid.UUID, input *UpdateProfileInput) (*models.User, error)
	UpdateAvatar(ctx context.Context, actor uuid.UUID, input *UpdateAvatarInput) (*models.User, error)
}

// The userService structure is the implementation of the UserService interface
type userService struct {
	repo   repositories.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenService

	// dummyDigest is compared against when the email is unknown so both
	// sign-in failures cost one bcrypt comparison.
	dummyOnce   sync.Once
	dummyDigest string
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(repo repositories.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService) UserService {
	return &userService{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates an account. Omitted profile fields get their defaults.
func (s *userService) Register(ctx context.Context, input *SignUpInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := Validate(input); err != nil {
		return nil, err
	}
	email := input.Email

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict(repositories.ErrEmailTakenMessage)
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, oops.With("operation", "check existing email").Wrap(err)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindInvalidInput) {
			return nil, err
		}
		return nil, oops.With("operation", "hash password").Wrap(err)
	}

	user := &models.User{
		Name:     withDefault(input.Name, models.DefaultName),
		About:    withDefault(input.About, models.DefaultAbout),
		Avatar:   withDefault(input.Avatar, models.DefaultAvatar),
		Email:    email,
		Password: digest,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and issues a session token.
func (s *userService) Authenticate(ctx context.Context, input *SignInInput) (string, *models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := Validate(input); err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.hasher.Verify(input.Password, s.dummy())
			return "", nil, apperr.Unauthenticated(CredentialsMessage)
		}
		return "", nil, err
	}

	if !s.hasher.Verify(input.Password, user.Password) {
		return "", nil, apperr.Unauthenticated(CredentialsMessage)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, oops.With("operation", "issue token").Wrap(err)
	}
	return token, user, nil
}

func (s *userService) GetUserByID(ctx context.Context, rawID string) (*models.User, error) {
	id, err := ParseID(rawID, "user")
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetCurrentUser(ctx context.Context, actor uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, actor)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

// UpdateProfile only ever touches the acting user's own record.
func (s *userService) UpdateProfile(ctx context.Context, actor uuid.UUID, input *UpdateProfileInput) (*models.User, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, actor, map[string]any{
		"name":  input.Name,
		"about": input.About,
	})
}

func (s *userService) UpdateAvatar(ctx context.Context, actor uuid.UUID, input *UpdateAvatarInput) (*models.User, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, actor, map[string]any{"avatar": input.Avatar})
}

func (s *userService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyDigest
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
