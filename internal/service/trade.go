// Package service implements the trade platform's domain operations on
// top of the store and the event producer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gameswap/internal/apperr"
	"gameswap/internal/event"
	"gameswap/internal/metrics"
	"gameswap/internal/model"
	"gameswap/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Publisher publishes an event envelope to a bus topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// TradeService enforces trade offer lifecycle invariants: creation
// preconditions, authenticated acceptance/rejection, the multi-game
// ownership transfer, and cascading invalidation of conflicting offers.
type TradeService struct {
	store     store.Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewTradeService(st store.Store, pub Publisher, logger *slog.Logger, m *metrics.Metrics) *TradeService {
	return &TradeService{
		store:     st,
		publisher: pub,
		logger:    logger,
		metrics:   m,
	}
}

// CreateTradeParams carries the raw ids from the create request.
type CreateTradeParams struct {
	Offerer        string
	Receiver       string
	OfferedGames   []string
	RequestedGames []string
}

// Create validates and persists a new pending trade offer, then
// publishes the creation event. Exactly one write and one publish
// attempt; a failed publish is logged and counted but never rolls the
// write back.
func (s *TradeService) Create(ctx context.Context, p CreateTradeParams) (*model.TradeOffer, error) {
	offererID, err := uuid.Parse(p.Offerer)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "offerer", Detail: "not a valid user id"}
	}
	receiverID, err := uuid.Parse(p.Receiver)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "receiver", Detail: "not a valid user id"}
	}
	if offererID == receiverID {
		return nil, &apperr.ValidationError{Field: "receiver", Detail: "you cannot trade with yourself"}
	}
	if len(p.OfferedGames) == 0 && len(p.RequestedGames) == 0 {
		return nil, &apperr.ValidationError{Field: "games", Detail: "at least one game must be offered or requested"}
	}
	for _, id := range append(append([]string{}, p.OfferedGames...), p.RequestedGames...) {
		if _, err := uuid.Parse(id); err != nil {
			return nil, &apperr.ValidationError{Field: "games", Detail: fmt.Sprintf("game id %s is not valid", id)}
		}
	}

	if _, err := s.store.Users().FindByID(ctx, offererID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users().FindByID(ctx, receiverID); err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, p, offererID, receiverID); err != nil {
		return nil, err
	}

	offer := &model.TradeOffer{
		ID:             uuid.New(),
		OffererID:      offererID,
		ReceiverID:     receiverID,
		OfferedGames:   p.OfferedGames,
		RequestedGames: p.RequestedGames,
		Status:         model.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	existing, err := s.store.Trades().FindPendingExact(ctx, offer)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &apperr.ConflictError{
			Detail:     "an identical pending trade offer already exists",
			ExistingID: existing.ID.String(),
		}
	}

	if err := s.store.Trades().Create(ctx, offer); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TopicTradeOffers, event.NewTradeOfferCreated(offer))
	return offer, nil
}

// checkOwnership verifies that every offered game belongs to the
// offerer and every requested game belongs to the receiver.
func (s *TradeService) checkOwnership(ctx context.Context, p CreateTradeParams, offererID, receiverID uuid.UUID) error {
	all := append(append([]string{}, p.OfferedGames...), p.RequestedGames...)
	games, err := s.store.Games().FindByIDs(ctx, all)
	if err != nil {
		return err
	}

	byID := make(map[string]*model.Game, len(games))
	for _, g := range games {
		byID[g.ID.String()] = g
	}

	for _, id := range p.OfferedGames {
		g, ok := byID[id]
		if !ok {
			return &apperr.NotFoundError{Resource: "game", ID: id}
		}
		if g.OwnerID != offererID {
			return &apperr.AuthorizationError{Detail: fmt.Sprintf("you do not own game %s", id)}
		}
	}
	for _, id := range p.RequestedGames {
		g, ok := byID[id]
		if !ok {
			return &apperr.NotFoundError{Resource: "game", ID: id}
		}
		if g.OwnerID != receiverID {
			return &apperr.ValidationError{Field: "requestedGames", Detail: fmt.Sprintf("the receiver does not own game %s", id)}
		}
	}
	return nil
}

// Accept authenticates the receiver and commits the trade: ownership of
// both game sets transfers, every other pending offer touching those
// games is cascade-rejected, and the offer becomes accepted. All writes
// happen in one transaction; the final status change is conditional on
// the offer still being pending, so a lost race rolls everything back
// and no partial transfer survives.
func (s *TradeService) Accept(ctx context.Context, tradeID, userID, password string) (*model.TradeOffer, error) {
	offer, err := s.authorizeReceiver(ctx, tradeID, userID, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Games().ReassignOwner(ctx, offer.OfferedGames, offer.ReceiverID); err != nil {
			return fmt.Errorf("transfer offered games: %w", err)
		}
		if err := tx.Games().ReassignOwner(ctx, offer.RequestedGames, offer.OffererID); err != nil {
			return fmt.Errorf("transfer requested games: %w", err)
		}

		rejected, err := tx.Trades().RejectPendingByGames(ctx, offer.ID, offer.AllGames(), model.CascadeRejectionReason, now)
		if err != nil {
			return fmt.Errorf("cascade rejection: %w", err)
		}
		if rejected > 0 {
			s.logger.Info("Cascade-rejected conflicting offers", "trade_id", offer.ID, "count", rejected)
		}

		ok, err := tx.Trades().CompleteIfPending(ctx, offer.ID, model.StatusAccepted, "", now)
		if err != nil {
			return fmt.Errorf("mark accepted: %w", err)
		}
		if !ok {
			return &apperr.StateError{Current: s.currentStatus(ctx, offer.ID)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	offer.Status = model.StatusAccepted
	offer.CompletedAt = &now

	if s.metrics != nil {
		s.metrics.TradeAccepted(ctx)
	}
	s.publish(ctx, event.TopicStatusUpdate, event.NewTradeStatusUpdate(offer))
	return offer, nil
}

// Reject authenticates the receiver and marks the offer rejected. No
// ownership changes.
func (s *TradeService) Reject(ctx context.Context, tradeID, userID, password, reason string) (*model.TradeOffer, error) {
	offer, err := s.authorizeReceiver(ctx, tradeID, userID, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ok, err := s.store.Trades().CompleteIfPending(ctx, offer.ID, model.StatusRejected, reason, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &apperr.StateError{Current: s.currentStatus(ctx, offer.ID)}
	}

	offer.Status = model.StatusRejected
	offer.RejectionReason = reason
	offer.CompletedAt = &now

	s.publish(ctx, event.TopicStatusUpdate, event.NewTradeStatusUpdate(offer))
	return offer, nil
}

// SentOffers lists offers where the user is the offerer.
func (s *TradeService) SentOffers(ctx context.Context, userID string) ([]*model.TradeOffer, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "user", Detail: "not a valid user id"}
	}
	if _, err := s.store.Users().FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Trades().FindByOfferer(ctx, id)
}

// ReceivedOffers lists offers where the user is the receiver.
func (s *TradeService) ReceivedOffers(ctx context.Context, userID string) ([]*model.TradeOffer, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "user", Detail: "not a valid user id"}
	}
	if _, err := s.store.Users().FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Trades().FindByReceiver(ctx, id)
}

// authorizeReceiver resolves the offer and verifies that the acting
// user is the offer's receiver with a matching credential. The pending
// check here gives an early StateError; the conditional write in the
// transaction is what actually guards the transition.
func (s *TradeService) authorizeReceiver(ctx context.Context, tradeID, userID, password string) (*model.TradeOffer, error) {
	offerID, err := uuid.Parse(tradeID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "id", Detail: "not a valid trade offer id"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "userId", Detail: "not a valid user id"}
	}
	if password == "" {
		return nil, &apperr.ValidationError{Field: "password", Detail: "password is required"}
	}

	offer, err := s.store.Trades().FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != model.StatusPending {
		return nil, &apperr.StateError{Current: string(offer.Status)}
	}

	user, err := s.store.Users().FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user.ID != offer.ReceiverID {
		return nil, &apperr.AuthorizationError{Detail: "only the receiver of the trade offer can respond to it"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &apperr.AuthenticationError{Detail: "invalid password"}
	}
	return offer, nil
}

func (s *TradeService) currentStatus(ctx context.Context, id uuid.UUID) string {
	if t, err := s.store.Trades().FindByID(ctx, id); err == nil {
		return string(t.Status)
	}
	return string(model.StatusPending)
}

// publish reports a lifecycle event. Failures are logged and counted,
// never surfaced to the request path: the committed state change stays
// authoritative even when its notification is lost.
func (s *TradeService) publish(ctx context.Context, topic string, payload any) {
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.Error("Failed to publish event", "topic", topic, "error", err)
		if s.metrics != nil {
			s.metrics.RecordError(ctx, "publish", apperr.Kind(err))
		}
	}
}
