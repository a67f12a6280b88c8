package store

import (
	"context"
	"errors"

	"gameswap/internal/apperr"
	"gameswap/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type gormGameStore struct {
	db *gorm.DB
}

func (s *gormGameStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Game, error) {
	var g model.Game
	err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "game", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *gormGameStore) FindByIDs(ctx context.Context, ids []string) ([]*model.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var games []*model.Game
	err := s.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(ids)).
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (s *gormGameStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Game, error) {
	var games []*model.Game
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (s *gormGameStore) Create(ctx context.Context, g *model.Game) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *gormGameStore) Update(ctx context.Context, g *model.Game) error {
	return s.db.WithContext(ctx).Save(g).Error
}

func (s *gormGameStore) ReassignOwner(ctx context.Context, ids []string, ownerID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.Game{}).
		Where("id = ANY(?)", pq.Array(ids)).
		Update("owner_id", ownerID).Error
}
