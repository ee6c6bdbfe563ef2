package repository

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

// UserRepository handles the users document.
type UserRepository struct {
	repo *Repository
}

// All returns every user record. An absent document yields an empty map.
func (r *UserRepository) All(ctx context.Context) (models.Users, error) {
	users := models.Users{}
	if _, err := r.repo.loadEncrypted(ctx, usersPath, &users); err != nil {
		if store.IsNotFound(err) {
			return models.Users{}, nil
		}
		return nil, err
	}
	return users, nil
}

// Get returns one user record.
func (r *UserRepository) Get(ctx context.Context, username string) (*models.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, store.ErrNotFound)
	}
	return &user, nil
}

// Add registers a new user. Duplicate usernames are rejected rather than
// overwritten; an existing user's record is not admin-editable data.
func (r *UserRepository) Add(ctx context.Context, username, passcode, displayName string, isAdmin bool) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if passcode == "" {
		return fmt.Errorf("%w: passcode is required", ErrValidation)
	}
	if strings.TrimSpace(displayName) == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}

	message := fmt.Sprintf("Add new user: %s", username)
	err := updateEncrypted(ctx, r.repo, usersPath, message,
		func() models.Users { return models.Users{} },
		func(users *models.Users) error {
			if _, exists := (*users)[username]; exists {
				return fmt.Errorf("%w: user %s already exists", ErrValidation, username)
			}
			(*users)[username] = models.User{
				Passcode:    passcode,
				DisplayName: displayName,
				IsAdmin:     isAdmin,
				CreatedAt:   time.Now().UTC(),
			}
			return nil
		})
	if err != nil {
		return err
	}

	log.Info().Str("user", username).Bool("admin", isAdmin).Msg("User added")
	return nil
}

// Verify checks a username/passcode pair and returns the user record on
// success. The passcode comparison is constant-time.
func (r *UserRepository) Verify(ctx context.Context, username, passcode string) (*models.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, store.ErrNotFound)
	}
	if subtle.ConstantTimeCompare([]byte(user.Passcode), []byte(passcode)) != 1 {
		return nil, fmt.Errorf("%w: bad passcode for %s", ErrValidation, username)
	}
	return &user, nil
}
