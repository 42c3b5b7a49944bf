package postgres

import (
	"context"
	"database/sql"
	"errors"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TxManager
	repository.UserRepository
	repository.CommunityRepository
	repository.ApplicationRepository
	repository.MembershipRepository
	repository.ProfileRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		TxManager:             NewTxManager(db),
		UserRepository:        NewUserRepository(db),
		CommunityRepository:   NewCommunityRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		MembershipRepository:  NewMembershipRepository(db),
		ProfileRepository:     NewProfileRepository(db),
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx so repository methods
// run against the transaction carried in the context when there is one.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func q(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) repository.TxManager {
	return &txManager{db: db}
}

func (tm *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := tm.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return err
	}

	return tx.Commit()
}

const uniqueViolation = "23505"

// conflictOn maps a unique constraint violation onto a domain conflict so
// callers losing a race see the same error as callers losing the
// application-level check. Other errors pass through unchanged.
func conflictOn(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ConflictError("%s", msg)
	}
	return err
}
