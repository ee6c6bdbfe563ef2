package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

// AdjustmentRepository handles the manual adjustment log: an append-only list
// of signed point deltas with audit metadata. The document is rewritten in
// full on append, but prior entries are never modified or dropped.
type AdjustmentRepository struct {
	repo *Repository
}

// Append adds one adjustment to the log. Reason and admin user are
// mandatory; an adjustment without an audit trail is rejected before any
// store write.
func (r *AdjustmentRepository) Append(ctx context.Context, adj models.Adjustment) error {
	if strings.TrimSpace(adj.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(adj.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}
	if strings.TrimSpace(adj.AdminUser) == "" {
		return fmt.Errorf("%w: admin user is required", ErrValidation)
	}
	if adj.PointsChange == 0 {
		return fmt.Errorf("%w: points change must be non-zero", ErrValidation)
	}
	if adj.Timestamp.IsZero() {
		adj.Timestamp = time.Now().UTC()
	}

	message := fmt.Sprintf("Adjust %s by %+d points", adj.Username, adj.PointsChange)
	err := updateEncrypted(ctx, r.repo, adjustmentsPath, message,
		func() []models.Adjustment { return nil },
		func(entries *[]models.Adjustment) error {
			*entries = append(*entries, adj)
			return nil
		})
	if err != nil {
		return err
	}

	log.Info().
		Str("user", adj.Username).
		Int("points_change", adj.PointsChange).
		Str("admin", adj.AdminUser).
		Msg("Manual adjustment recorded")
	return nil
}

// List returns adjustments in insertion order. A non-empty username filters
// to that user's entries. An absent log yields an empty list.
func (r *AdjustmentRepository) List(ctx context.Context, username string) ([]models.Adjustment, error) {
	var entries []models.Adjustment
	if _, err := r.repo.loadEncrypted(ctx, adjustmentsPath, &entries); err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if username == "" {
		return entries, nil
	}

	filtered := make([]models.Adjustment, 0, len(entries))
	for _, entry := range entries {
		if entry.Username == username {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}
