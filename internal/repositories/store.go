package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messaging-service/internal/models"
)

// dbtx is satisfied by both *sqlx.DB and *sqlx.Tx.
type dbtx interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Conversations ConversationRepository
	Channels      ChannelRepository
	Messages      MessageRepository
	Preferences   PreferenceRepository
	Reactions     ReactionRepository
	Favorites     FavoriteRepository
	Receipts      ReadReceiptRepository
}

// Store is the unit of work used by command handlers.
type Store interface {
	// Repos returns repositories outside of any transaction, for queries.
	Repos() Repos
	// WithinTx runs fn in one transaction, committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

// SQLStore is the Postgres-backed Store.
type SQLStore struct {
	db *sqlx.DB
}

// NewStore constructs a SQLStore.
func NewStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func newRepos(q dbtx) Repos {
	return Repos{
		Conversations: &ConversationRepo{db: q},
		Channels:      &ChannelRepo{db: q},
		Messages:      &MessageRepo{db: q},
		Preferences:   &PreferenceRepo{db: q},
		Reactions:     &ReactionRepo{db: q},
		Favorites:     &FavoriteRepo{db: q},
		Receipts:      &ReadReceiptRepo{db: q},
	}
}

// Repos implements Store.
func (s *SQLStore) Repos() Repos {
	return newRepos(s.db)
}

// WithinTx implements Store.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(Repos) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(newRepos(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFoundf(format, args...)
	}
	return err
}
