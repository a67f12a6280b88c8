package store

import (
	"context"
	"errors"

	"gameswap/internal/apperr"
	"gameswap/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "user", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) FindByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "user", ID: name}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "user", ID: email}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) Create(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormUserStore) Update(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *gormUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}
