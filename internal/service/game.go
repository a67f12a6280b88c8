package service

import (
	"context"
	"time"

	"gameswap/internal/apperr"
	"gameswap/internal/model"
	"gameswap/internal/store"

	"github.com/google/uuid"
)

// GameService manages the game catalogue. Edits are restricted to the
// current owner; ownership itself only changes through accepted trades.
type GameService struct {
	store store.Store
}

func NewGameService(st store.Store) *GameService {
	return &GameService{store: st}
}

// CreateGameParams carries the new game form.
type CreateGameParams struct {
	Title     string
	Publisher string
	Year      int
	System    string
	Condition string
	Price     float64
	Rating    int
	OwnerID   string
}

func (s *GameService) Create(ctx context.Context, p CreateGameParams) (*model.Game, error) {
	if p.Title == "" || p.Publisher == "" || p.System == "" {
		return nil, &apperr.ValidationError{Detail: "title, publisher, and system are required"}
	}
	if !model.ValidCondition(model.Condition(p.Condition)) {
		return nil, &apperr.ValidationError{Field: "condition", Detail: "must be one of mint, good, fair, poor"}
	}
	if p.Rating < 1 || p.Rating > 10 {
		return nil, &apperr.ValidationError{Field: "rating", Detail: "must be between 1 and 10"}
	}
	if p.Price < 0 {
		return nil, &apperr.ValidationError{Field: "price", Detail: "must not be negative"}
	}

	ownerID, err := uuid.Parse(p.OwnerID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "ownerId", Detail: "not a valid user id"}
	}
	if _, err := s.store.Users().FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	game := &model.Game{
		ID:        uuid.New(),
		Title:     p.Title,
		Publisher: p.Publisher,
		Year:      p.Year,
		System:    p.System,
		Condition: model.Condition(p.Condition),
		Price:     p.Price,
		Rating:    p.Rating,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Games().Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameService) Get(ctx context.Context, id string) (*model.Game, error) {
	gameID, err := uuid.Parse(id)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "id", Detail: "not a valid game id"}
	}
	return s.store.Games().FindByID(ctx, gameID)
}

func (s *GameService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Game, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "ownerId", Detail: "not a valid user id"}
	}
	return s.store.Games().FindByOwner(ctx, id)
}

// UpdateGameParams carries optional edits to a game's descriptive
// fields. Ownership is not editable here.
type UpdateGameParams struct {
	Title     *string
	Publisher *string
	Year      *int
	System    *string
	Condition *string
	Price     *float64
	Rating    *int
}

// Update applies edits after verifying the acting user owns the game.
func (s *GameService) Update(ctx context.Context, id, actingUserID string, p UpdateGameParams) (*model.Game, error) {
	game, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	actorID, err := uuid.Parse(actingUserID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "userId", Detail: "not a valid user id"}
	}
	if game.OwnerID != actorID {
		return nil, &apperr.AuthorizationError{Detail: "only the owner can edit a game"}
	}

	if p.Title != nil {
		game.Title = *p.Title
	}
	if p.Publisher != nil {
		game.Publisher = *p.Publisher
	}
	if p.Year != nil {
		game.Year = *p.Year
	}
	if p.System != nil {
		game.System = *p.System
	}
	if p.Condition != nil {
		if !model.ValidCondition(model.Condition(*p.Condition)) {
			return nil, &apperr.ValidationError{Field: "condition", Detail: "must be one of mint, good, fair, poor"}
		}
		game.Condition = model.Condition(*p.Condition)
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, &apperr.ValidationError{Field: "price", Detail: "must not be negative"}
		}
		game.Price = *p.Price
	}
	if p.Rating != nil {
		if *p.Rating < 1 || *p.Rating > 10 {
			return nil, &apperr.ValidationError{Field: "rating", Detail: "must be between 1 and 10"}
		}
		game.Rating = *p.Rating
	}

	game.UpdatedAt = time.Now().UTC()
	if err := s.store.Games().Update(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}
