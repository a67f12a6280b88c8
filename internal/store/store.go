// Package store provides persistence for users, games, and trade
// offers. Implementations must be safe for concurrent use.
package store

import (
	"context"
	"time"

	"gameswap/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore holds user accounts.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GameStore holds catalogued games.
type GameStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Game, error)
	// FindByIDs returns the games that exist among ids; missing ids are
	// simply absent from the result, not an error.
	FindByIDs(ctx context.Context, ids []string) ([]*model.Game, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Game, error)
	Create(ctx context.Context, g *model.Game) error
	Update(ctx context.Context, g *model.Game) error
	// ReassignOwner bulk-updates the owner of every game in ids.
	ReassignOwner(ctx context.Context, ids []string, ownerID uuid.UUID) error
}

// TradeOfferStore holds trade offers.
type TradeOfferStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.TradeOffer, error)
	// FindPendingExact returns a pending offer with the same offerer,
	// receiver, and game sets, or nil if none exists.
	FindPendingExact(ctx context.Context, t *model.TradeOffer) (*model.TradeOffer, error)
	FindByOfferer(ctx context.Context, offererID uuid.UUID) ([]*model.TradeOffer, error)
	FindByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*model.TradeOffer, error)
	Create(ctx context.Context, t *model.TradeOffer) error
	// RejectPendingByGames rejects every pending offer other than
	// excludeID that references any game in gameIDs. Returns the number
	// of offers rejected.
	RejectPendingByGames(ctx context.Context, excludeID uuid.UUID, gameIDs []string, reason string, at time.Time) (int64, error)
	// CompleteIfPending transitions the offer to status only if it is
	// still pending. Returns false when the offer was already terminal,
	// which callers must treat as a lost race, not success.
	CompleteIfPending(ctx context.Context, id uuid.UUID, status model.TradeStatus, reason string, at time.Time) (bool, error)
}

// Store aggregates the entity stores and the transaction boundary.
type Store interface {
	Users() UserStore
	Games() GameStore
	Trades() TradeOfferStore
	// WithTx runs fn against a Store whose writes commit atomically.
	// Any error from fn rolls the whole transaction back.
	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

// New creates a Postgres-backed Store on top of an open gorm handle.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserStore {
	return &gormUserStore{db: s.db}
}

func (s *gormStore) Games() GameStore {
	return &gormGameStore{db: s.db}
}

func (s *gormStore) Trades() TradeOfferStore {
	return &gormTradeOfferStore{db: s.db}
}

func (s *gormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
