package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/andressep95/deen-service/internal/repository"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translate maps driver errors onto repository sentinels and wraps the rest.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", pqErr.Constraint, repository.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", pqErr.Constraint, repository.ErrInvalidReference)
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
