package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrMissingProfileData marks a profile read that came back incomplete.
	// Callers recover to baseline weighting; this never surfaces to users.
	ErrMissingProfileData = errors.New("missing profile data")
	// ErrInvalidScoreRange marks a relationship score outside its 1-10 bound.
	ErrInvalidScoreRange = errors.New("score out of range")
	// ErrTierUnrecognized marks a tier value that failed closed to entry.
	ErrTierUnrecognized = errors.New("unrecognized tier")
	// ErrTierRequired marks content the user's tier does not unlock. The
	// transport layer turns this into an upgrade prompt.
	ErrTierRequired = errors.New("tier does not allow this feature")
	// ErrOutlookNotReady marks an outlook that cannot be computed yet. The
	// transport layer turns this into a retry-later response.
	ErrOutlookNotReady = errors.New("outlook not available yet")
	// ErrConflict marks a write that lost to an existing (user, date) row.
	ErrConflict = errors.New("outlook already exists")
	// ErrRetryable marks a transient persistence failure worth retrying.
	ErrRetryable = errors.New("persistence unavailable")
)

// classifyPersistenceError folds driver-level failures into ErrConflict or
// ErrRetryable so batch retry logic can branch on errors.Is.
func classifyPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrRetryable) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrConflict, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrRetryable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return errors.Join(ErrConflict, err) // unique_violation
		case "40001", "40P01", "55P03":
			return errors.Join(ErrRetryable, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "already exists"):
		return errors.Join(ErrConflict, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "temporar"):
		return errors.Join(ErrRetryable, err)
	}
	return err
}
