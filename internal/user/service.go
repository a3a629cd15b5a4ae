package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidUser        = errors.New("invalid user")
)

type Service interface {
	RegisterUser(ctx context.Context, u *User, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	ListUsers(ctx context.Context) []User
	GetUserByID(ctx context.Context, id uint64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id uint64, patch Patch) (*User, error)
	DeleteUser(ctx context.Context, id uint64) bool
}

type service struct {
	users  *store.Store[User]
	hasher Hasher
	now    func() time.Time
}

// NewStore returns an empty user store indexed by lowercase email.
func NewStore() *store.Store[User] {
	return store.New(setID, store.WithUniqueIndex(emailKey))
}

func NewService(users *store.Store[User], hasher Hasher) Service {
	return &service{
		users:  users,
		hasher: hasher,
		now:    time.Now,
	}
}

// RegisterUser hashes password and stores u. The email check and the insert
// are one store operation; the lookup before hashing only saves bcrypt work
// on obvious duplicates.
func (s *service) RegisterUser(ctx context.Context, u *User, password string) (*User, error) {
	if normalizeEmail(u.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrInvalidUser)
	}

	if _, taken := s.users.Lookup(normalizeEmail(u.Email)); taken {
		log.Warn().Str("email", u.Email).Msg("service: email already registered")
		return nil, ErrEmailExists
	}

	hashed, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password exceeds 72 bytes", ErrInvalidUser)
	}
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: failed to register user: %w", err)
	}

	candidate := *u
	candidate.Email = strings.TrimSpace(candidate.Email)
	candidate.PasswordHash = hashed
	candidate.CreatedAt = s.now()

	created, outcome := s.users.Insert(candidate)
	if outcome == store.Conflict {
		log.Warn().Str("email", u.Email).Msg("service: email already registered")
		return nil, ErrEmailExists
	}

	log.Info().Uint64("user_id", created.ID).Msg("service: user registered")

	return &created, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, ok := s.users.Lookup(normalizeEmail(email))
	if !ok || !s.hasher.Verify(password, u.PasswordHash) {
		log.Warn().Str("email", email).Msg("service: login failed")
		return nil, ErrInvalidCredentials
	}

	return &u, nil
}

func (s *service) ListUsers(ctx context.Context) []User {
	return s.users.List()
}

func (s *service) GetUserByID(ctx context.Context, id uint64) (*User, error) {
	u, ok := s.users.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := s.users.Lookup(normalizeEmail(email))
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// UpdateUser applies patch to the user. A new email moves the index entry
// in the same store operation; an email held by another user is rejected
// with ErrEmailExists.
func (s *service) UpdateUser(ctx context.Context, id uint64, patch Patch) (*User, error) {
	if patch.Email != nil && normalizeEmail(*patch.Email) == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidUser)
	}

	var hashed string
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", ErrInvalidUser)
		}
		var err error
		hashed, err = s.hasher.Hash(*patch.Password)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password exceeds 72 bytes", ErrInvalidUser)
		}
		if err != nil {
			log.Error().Err(err).Uint64("user_id", id).Msg("service: failed to hash password")
			return nil, fmt.Errorf("service: failed to update user: %w", err)
		}
	}

	updated, outcome := s.users.Update(id, func(u *User) bool {
		if patch.Email != nil {
			u.Email = strings.TrimSpace(*patch.Email)
		}
		if hashed != "" {
			u.PasswordHash = hashed
		}
		if patch.FirstName != nil {
			u.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			u.LastName = *patch.LastName
		}
		if patch.PhoneNumber != nil {
			u.PhoneNumber = *patch.PhoneNumber
		}
		if patch.Address != nil {
			u.Address = *patch.Address
		}
		return true
	})

	switch outcome {
	case store.NotFound:
		log.Warn().Uint64("user_id", id).Msg("service: user not found for update")
		return nil, ErrNotFound
	case store.Conflict:
		log.Warn().Uint64("user_id", id).Msg("service: email already taken by another user")
		return nil, ErrEmailExists
	}

	log.Info().Uint64("user_id", id).Msg("service: user updated")

	return &updated, nil
}

func (s *service) DeleteUser(ctx context.Context, id uint64) bool {
	deleted := s.users.Delete(id)
	if deleted {
		log.Info().Uint64("user_id", id).Msg("service: user deleted")
	}
	return deleted
}
