// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"slices"
	"sync"
	"time"

	"gameswap/internal/apperr"
	"gameswap/internal/model"
	"gameswap/internal/store"

	"github.com/google/uuid"
)

// Memory implements store.Store with plain maps. WithTx runs fn
// directly without rollback semantics; tests that need rollback
// behavior belong against a real database.
type Memory struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*model.User
	games  map[uuid.UUID]*model.Game
	trades map[uuid.UUID]*model.TradeOffer
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[uuid.UUID]*model.User),
		games:  make(map[uuid.UUID]*model.Game),
		trades: make(map[uuid.UUID]*model.TradeOffer),
	}
}

// AddUser seeds a user.
func (m *Memory) AddUser(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
}

// AddGame seeds a game.
func (m *Memory) AddGame(g *model.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.games[g.ID] = &cp
}

// AddTrade seeds a trade offer.
func (m *Memory) AddTrade(t *model.TradeOffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.trades[t.ID] = &cp
}

// Game returns the current state of a seeded game.
func (m *Memory) Game(id uuid.UUID) *model.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		cp := *g
		return &cp
	}
	return nil
}

// Trade returns the current state of a seeded trade offer.
func (m *Memory) Trade(id uuid.UUID) *model.TradeOffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trades[id]; ok {
		cp := *t
		return &cp
	}
	return nil
}

func (m *Memory) Users() store.UserStore        { return &memUsers{m: m} }
func (m *Memory) Games() store.GameStore        { return &memGames{m: m} }
func (m *Memory) Trades() store.TradeOfferStore { return &memTrades{m: m} }

func (m *Memory) WithTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(m)
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

type memUsers struct{ m *Memory }

func (s *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u, ok := s.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, &apperr.NotFoundError{Resource: "user", ID: id.String()}
}

func (s *memUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &apperr.NotFoundError{Resource: "user", ID: name}
}

func (s *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &apperr.NotFoundError{Resource: "user", ID: email}
}

func (s *memUsers) Create(ctx context.Context, u *model.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *u
	s.m.users[u.ID] = &cp
	return nil
}

func (s *memUsers) Update(ctx context.Context, u *model.User) error {
	return s.Create(ctx, u)
}

func (s *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.users, id)
	return nil
}

type memGames struct{ m *Memory }

func (s *memGames) FindByID(ctx context.Context, id uuid.UUID) (*model.Game, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if g, ok := s.m.games[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, &apperr.NotFoundError{Resource: "game", ID: id.String()}
}

func (s *memGames) FindByIDs(ctx context.Context, ids []string) ([]*model.Game, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var games []*model.Game
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		if g, ok := s.m.games[parsed]; ok {
			cp := *g
			games = append(games, &cp)
		}
	}
	return games, nil
}

func (s *memGames) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Game, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var games []*model.Game
	for _, g := range s.m.games {
		if g.OwnerID == ownerID {
			cp := *g
			games = append(games, &cp)
		}
	}
	return games, nil
}

func (s *memGames) Create(ctx context.Context, g *model.Game) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *g
	s.m.games[g.ID] = &cp
	return nil
}

func (s *memGames) Update(ctx context.Context, g *model.Game) error {
	return s.Create(ctx, g)
}

func (s *memGames) ReassignOwner(ctx context.Context, ids []string, ownerID uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		if g, ok := s.m.games[parsed]; ok {
			g.OwnerID = ownerID
		}
	}
	return nil
}

type memTrades struct{ m *Memory }

func (s *memTrades) FindByID(ctx context.Context, id uuid.UUID) (*model.TradeOffer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if t, ok := s.m.trades[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, &apperr.NotFoundError{Resource: "trade offer", ID: id.String()}
}

func (s *memTrades) FindPendingExact(ctx context.Context, t *model.TradeOffer) (*model.TradeOffer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.trades {
		if existing.Status == model.StatusPending &&
			existing.OffererID == t.OffererID &&
			existing.ReceiverID == t.ReceiverID &&
			slices.Equal(existing.OfferedGames, t.OfferedGames) &&
			slices.Equal(existing.RequestedGames, t.RequestedGames) {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memTrades) FindByOfferer(ctx context.Context, offererID uuid.UUID) ([]*model.TradeOffer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var offers []*model.TradeOffer
	for _, t := range s.m.trades {
		if t.OffererID == offererID {
			cp := *t
			offers = append(offers, &cp)
		}
	}
	return offers, nil
}

func (s *memTrades) FindByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*model.TradeOffer, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var offers []*model.TradeOffer
	for _, t := range s.m.trades {
		if t.ReceiverID == receiverID {
			cp := *t
			offers = append(offers, &cp)
		}
	}
	return offers, nil
}

func (s *memTrades) Create(ctx context.Context, t *model.TradeOffer) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *t
	s.m.trades[t.ID] = &cp
	return nil
}

func (s *memTrades) RejectPendingByGames(ctx context.Context, excludeID uuid.UUID, gameIDs []string, reason string, at time.Time) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for _, t := range s.m.trades {
		if t.ID == excludeID || t.Status != model.StatusPending {
			continue
		}
		if !overlaps(t.AllGames(), gameIDs) {
			continue
		}
		t.Status = model.StatusRejected
		t.RejectionReason = reason
		ts := at
		t.CompletedAt = &ts
		n++
	}
	return n, nil
}

func (s *memTrades) CompleteIfPending(ctx context.Context, id uuid.UUID, status model.TradeStatus, reason string, at time.Time) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.trades[id]
	if !ok || t.Status != model.StatusPending {
		return false, nil
	}
	t.Status = status
	if reason != "" {
		t.RejectionReason = reason
	}
	ts := at
	t.CompletedAt = &ts
	return true, nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
