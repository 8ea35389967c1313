package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/repository"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Todo() repository.TodoRepo {
	return &TodoRepo{DB: s.db}
}

func (s *Storage) Task() repository.TaskRepo {
	return &TaskRepo{DB: s.db}
}

// dbError wraps a query failure. Timeouts and unreachable database are
// classified as apperrors.ErrUnavailable so handlers answer 503, every
// other failure stays a plain server error.
func dbError(err error) error {
	// Dial and connect failures wrap a net.Error somewhere in the chain
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return fmt.Errorf("db timeout: %v: %w", err, apperrors.ErrUnavailable)
	case errors.As(err, &netErr):
		return fmt.Errorf("db unreachable: %v: %w", err, apperrors.ErrUnavailable)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
