package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// dbtx is the statement surface shared by the connection and a unit of work.
// Single-statement mutators and reads run on the connection through withConn;
// multi-statement writes run on a UnitOfWork.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UnitOfWork is an open transaction on the store's connection.
//
// Every statement issued through it applies to the same transaction. It must
// end with exactly one Commit or Rollback; either call releases the store's
// unit-of-work gate.
type UnitOfWork struct {
	s    *Store
	tx   *sql.Tx
	id   string
	op   string
	done bool
}

// Begin opens a unit of work. Returns ErrUnitOfWorkOpen while another unit
// of work on this store has not finished.
func (s *Store) Begin(ctx context.Context) (*UnitOfWork, error) {
	return s.begin(ctx, "begin")
}

func (s *Store) begin(ctx context.Context, op string) (*UnitOfWork, error) {
	if !s.gate.CompareAndSwap(false, true) {
		return nil, ErrUnitOfWorkOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.gate.Store(false)
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	uow := &UnitOfWork{
		s:  s,
		tx: tx,
		id: uuid.Must(uuid.NewV7()).String(),
		op: op,
	}
	slog.Debug("unit of work started", "uow", uow.id, "op", op)
	return uow, nil
}

// ID returns the unit of work's correlation id.
func (u *UnitOfWork) ID() string { return u.id }

// Commit applies every statement issued through the unit of work.
func (u *UnitOfWork) Commit() error {
	if u.done {
		return ErrUnitOfWorkDone
	}
	u.finish()

	if err := u.tx.Commit(); err != nil {
		slog.Warn("unit of work commit failed", "uow", u.id, "op", u.op, "error", err)
		return fmt.Errorf("commit: %w", err)
	}
	slog.Debug("unit of work committed", "uow", u.id, "op", u.op)
	return nil
}

// Rollback discards every statement issued through the unit of work.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return ErrUnitOfWorkDone
	}
	u.finish()

	if err := u.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	slog.Debug("unit of work rolled back", "uow", u.id, "op", u.op)
	return nil
}

func (u *UnitOfWork) finish() {
	u.done = true
	u.s.gate.Store(false)
}

// ExecContext executes a statement inside the unit of work.
func (u *UnitOfWork) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if u.done {
		return nil, ErrUnitOfWorkDone
	}
	return u.tx.ExecContext(ctx, query, args...)
}

// QueryContext runs a query inside the unit of work.
func (u *UnitOfWork) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if u.done {
		return nil, ErrUnitOfWorkDone
	}
	return u.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query inside the unit of work.
func (u *UnitOfWork) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return u.tx.QueryRowContext(ctx, query, args...)
}

// withConn runs fn on the bare connection while holding the gate, so no unit
// of work can start until fn returns. Returns ErrUnitOfWorkOpen without
// touching the connection when the gate is already held.
func (s *Store) withConn(fn func(dbtx) error) error {
	if !s.gate.CompareAndSwap(false, true) {
		return ErrUnitOfWorkOpen
	}
	defer s.gate.Store(false)
	return fn(s.db)
}

// exec runs one statement through withConn.
func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := s.withConn(func(db dbtx) error {
		var err error
		res, err = db.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

// queryStrings is the package-level queryStrings run through withConn.
func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	var out []string
	err := s.withConn(func(db dbtx) error {
		var err error
		out, err = queryStrings(ctx, db, query, args...)
		return err
	})
	return out, err
}

// withUnitOfWork runs fn inside a new unit of work. When fn fails the unit of
// work is rolled back and fn's error is returned as is; otherwise it commits.
func (s *Store) withUnitOfWork(ctx context.Context, op string, fn func(*UnitOfWork) error) error {
	uow, err := s.begin(ctx, op)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if !uow.done {
			_ = uow.Rollback()
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			slog.Error("unit of work rollback failed", "uow", uow.id, "op", op, "error", rbErr)
		}
		slog.Warn("unit of work aborted", "uow", uow.id, "op", op, "error", err)
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
