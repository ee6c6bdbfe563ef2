// Package repository provides typed access to the league's documents in the
// versioned store: fixtures and results as CSV, predictions, users, settings
// and the manual adjustment log as encrypted JSON. All shape sniffing
// (legacy prediction records, plaintext legacy documents) happens here;
// callers see canonical structs only.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/crypto"
	"predleague/engine/internal/metrics"
	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

// ErrValidation marks input rejected before any store write.
var ErrValidation = errors.New("validation failed")

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Document paths within the store.
const (
	usersPath       = "users.json"
	settingsPath    = "settings.json"
	adjustmentsPath = "manual_adjustments.json"
)

func fixturesPath(week int) string    { return fmt.Sprintf("fixtures/week%d.csv", week) }
func resultsPath(week int) string     { return fmt.Sprintf("results/week%d.csv", week) }
func predictionsPath(week int) string { return fmt.Sprintf("predictions/week%d.json", week) }

// Repository bundles the per-document repositories over one store and codec.
type Repository struct {
	store store.Store
	codec *crypto.Codec

	maxWriteRetries int
	retryBackoff    time.Duration

	Fixtures    *FixtureRepository
	Results     *ResultRepository
	Predictions *PredictionRepository
	Users       *UserRepository
	Settings    *SettingsRepository
	Adjustments *AdjustmentRepository
}

// New creates a Repository over the given store and codec.
func New(s store.Store, codec *crypto.Codec) *Repository {
	r := &Repository{
		store:           s,
		codec:           codec,
		maxWriteRetries: 3,
		retryBackoff:    100 * time.Millisecond,
	}
	r.Fixtures = &FixtureRepository{repo: r}
	r.Results = &ResultRepository{repo: r}
	r.Predictions = &PredictionRepository{repo: r}
	r.Users = &UserRepository{repo: r}
	r.Settings = &SettingsRepository{repo: r}
	r.Adjustments = &AdjustmentRepository{repo: r}
	return r
}

// EnsureDefaults creates the users and settings documents when absent, so a
// fresh store is immediately usable. A create that loses the race to another
// instance is not an error.
func (r *Repository) EnsureDefaults(ctx context.Context, adminPasscode string) error {
	now := time.Now().UTC()

	if _, err := r.store.Get(ctx, usersPath); store.IsNotFound(err) {
		users := models.Users{
			models.AdminUsername: {
				Passcode:    adminPasscode,
				DisplayName: "Administrator",
				IsAdmin:     true,
				CreatedAt:   now,
			},
		}
		if err := r.createEncrypted(ctx, usersPath, users, "Initialize users configuration"); err != nil {
			return err
		}
		log.Info().Msg("Created default users document")
	} else if err != nil {
		return err
	}

	if _, err := r.store.Get(ctx, settingsPath); store.IsNotFound(err) {
		if err := r.createEncrypted(ctx, settingsPath, models.DefaultSettings(now), "Initialize league settings"); err != nil {
			return err
		}
		log.Info().Msg("Created default settings document")
	} else if err != nil {
		return err
	}

	return nil
}

// loadEncrypted fetches and decrypts a JSON document. Legacy documents that
// were stored as plaintext JSON are accepted too. The returned revision is
// needed for a subsequent write. Absence propagates as store.ErrNotFound;
// a document that exists but will not decode is a DecodeError, never silently
// empty.
func (r *Repository) loadEncrypted(ctx context.Context, path string, v any) (string, error) {
	doc, err := r.store.Get(ctx, path)
	if err != nil {
		return "", err
	}

	if err := decodeDocument(r.codec, doc.Content, v); err != nil {
		return "", &store.DecodeError{Path: path, Err: err}
	}
	return doc.Revision, nil
}

// decodeDocument opens a stored document body: plaintext JSON if it looks
// like JSON (legacy), otherwise an encrypted token.
func decodeDocument(codec *crypto.Codec, content string, v any) error {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return plainUnmarshal(trimmed, v)
	}
	return codec.Decrypt(trimmed, v)
}

func plainUnmarshal(content string, v any) error {
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("invalid plaintext document: %w", err)
	}
	return nil
}

// createEncrypted writes a brand-new encrypted document.
func (r *Repository) createEncrypted(ctx context.Context, path string, v any, message string) error {
	ciphertext, err := r.codec.Encrypt(v)
	if err != nil {
		return err
	}
	if _, err := r.store.Put(ctx, path, ciphertext, "", message); err != nil {
		if store.IsConflict(err) {
			// Someone else created it first; their copy wins.
			return nil
		}
		return err
	}
	return nil
}

// overwritePlain replaces a plaintext document wholesale, retrying the
// revision dance on conflict. Used for fixtures and results, where the new
// content does not depend on the old.
func (r *Repository) overwritePlain(ctx context.Context, path, content, message string) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxWriteRetries; attempt++ {
		if attempt > 0 {
			metrics.WriteRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.retryBackoff * time.Duration(attempt)):
			}
		}

		revision := ""
		doc, err := r.store.Get(ctx, path)
		if err != nil && !store.IsNotFound(err) {
			return err
		}
		if doc != nil {
			revision = doc.Revision
		}

		if _, err := r.store.Put(ctx, path, content, revision, message); err != nil {
			if store.IsConflict(err) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}

	return fmt.Errorf("write to %s failed after %d retries: %w", path, r.maxWriteRetries, lastErr)
}

// updateEncrypted runs a bounded read-modify-write loop on an encrypted JSON
// document. A missing document starts from init's zero state. On a revision
// conflict the whole cycle re-reads and reapplies mutate; after the retry
// budget the conflict is surfaced, never swallowed.
func updateEncrypted[T any](ctx context.Context, r *Repository, path, message string, init func() T, mutate func(*T) error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxWriteRetries; attempt++ {
		if attempt > 0 {
			metrics.WriteRetriesTotal.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.retryBackoff * time.Duration(attempt)):
			}
		}

		value := init()
		revision, err := r.loadEncrypted(ctx, path, &value)
		if err != nil && !store.IsNotFound(err) {
			return err
		}
		if store.IsNotFound(err) {
			value = init()
			revision = ""
		}

		if err := mutate(&value); err != nil {
			return err
		}

		ciphertext, err := r.codec.Encrypt(value)
		if err != nil {
			return err
		}

		if _, err := r.store.Put(ctx, path, ciphertext, revision, message); err != nil {
			if store.IsConflict(err) {
				lastErr = err
				log.Warn().
					Str("path", path).
					Int("attempt", attempt+1).
					Msg("Write conflict, re-reading document")
				continue
			}
			return err
		}
		return nil
	}

	return fmt.Errorf("write to %s failed after %d retries: %w", path, r.maxWriteRetries, lastErr)
}
