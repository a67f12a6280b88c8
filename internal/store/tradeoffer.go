package store

import (
	"context"
	"errors"
	"time"

	"gameswap/internal/apperr"
	"gameswap/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type gormTradeOfferStore struct {
	db *gorm.DB
}

func (s *gormTradeOfferStore) FindByID(ctx context.Context, id uuid.UUID) (*model.TradeOffer, error) {
	var t model.TradeOffer
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "trade offer", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *gormTradeOfferStore) FindPendingExact(ctx context.Context, t *model.TradeOffer) (*model.TradeOffer, error) {
	var existing model.TradeOffer
	err := s.db.WithContext(ctx).
		Where("offerer_id = ? AND receiver_id = ? AND offered_games = ? AND requested_games = ? AND status = ?",
			t.OffererID, t.ReceiverID, pq.Array([]string(t.OfferedGames)), pq.Array([]string(t.RequestedGames)), model.StatusPending).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *gormTradeOfferStore) FindByOfferer(ctx context.Context, offererID uuid.UUID) ([]*model.TradeOffer, error) {
	var offers []*model.TradeOffer
	err := s.db.WithContext(ctx).
		Where("offerer_id = ?", offererID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (s *gormTradeOfferStore) FindByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*model.TradeOffer, error) {
	var offers []*model.TradeOffer
	err := s.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (s *gormTradeOfferStore) Create(ctx context.Context, t *model.TradeOffer) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// RejectPendingByGames uses the Postgres array-overlap operator to find
// every other pending offer that touches any of gameIDs.
func (s *gormTradeOfferStore) RejectPendingByGames(ctx context.Context, excludeID uuid.UUID, gameIDs []string, reason string, at time.Time) (int64, error) {
	if len(gameIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("id <> ? AND status = ? AND (offered_games && ? OR requested_games && ?)",
			excludeID, model.StatusPending, pq.Array(gameIDs), pq.Array(gameIDs)).
		Updates(map[string]any{
			"status":           model.StatusRejected,
			"rejection_reason": reason,
			"completed_at":     at,
		})
	return res.RowsAffected, res.Error
}

// CompleteIfPending is the conditional write that closes the
// read-then-accept race: the status predicate is re-evaluated under the
// row lock, so a concurrent transition makes this report false.
func (s *gormTradeOfferStore) CompleteIfPending(ctx context.Context, id uuid.UUID, status model.TradeStatus, reason string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":       status,
		"completed_at": at,
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}
	res := s.db.WithContext(ctx).
		Model(&model.TradeOffer{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
