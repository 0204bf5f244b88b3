package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the connection pool.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *logger.Logger
}

// Queries runs statements on a single session.
type Queries struct {
	db      DBTX
	dialect Dialect
}

// Gateway hands out scoped sessions. *Store implements it.
type Gateway interface {
	WithSession(ctx context.Context, fn func(q *Queries) error) error
}

// WithSession checks out one connection for the duration of fn and runs fn
// inside a transaction on it. The transaction is committed when fn returns
// nil and rolled back when fn fails or panics. Either way the connection goes
// back to the pool before WithSession returns.
func (s *Store) WithSession(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error("rollback after panic failed", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err = fn(&Queries{db: tx, dialect: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Ctx(ctx).Error("session rollback failed", "error", rbErr)
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		s.log.Ctx(ctx).Debug("session rolled back", "error", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) LogStats() {
	st := s.db.Stats()
	s.log.Info("database pool stats",
		"open_connections", st.OpenConnections,
		"in_use", st.InUse,
		"idle", st.Idle,
		"wait_count", st.WaitCount,
		"wait_duration", st.WaitDuration)
}

func (s *Store) Close() error {
	s.log.Info("closing database connection")
	return s.db.Close()
}
