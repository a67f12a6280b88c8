// Package event defines the lifecycle event envelopes exchanged over
// the message bus. Field names are the wire contract shared with the
// notification consumer and must not change.
package event

import (
	"time"

	"gameswap/internal/model"
)

const (
	TopicTradeOffers  = "trade-offers"
	TopicStatusUpdate = "trade-status-updates"
	TopicUserChanges  = "user-changes"
)

// Kind identifies the envelope type carried by a topic. Dispatching on
// Kind keeps the consumer's switch exhaustive when a topic is added.
type Kind int

const (
	KindUnknown Kind = iota
	KindTradeOffer
	KindStatusUpdate
	KindUserChange
)

// KindForTopic maps a bus topic to its envelope kind.
func KindForTopic(topic string) Kind {
	switch topic {
	case TopicTradeOffers:
		return KindTradeOffer
	case TopicStatusUpdate:
		return KindStatusUpdate
	case TopicUserChanges:
		return KindUserChange
	default:
		return KindUnknown
	}
}

// TradeOfferCreated is the snapshot published when an offer is created.
type TradeOfferCreated struct {
	ID             string    `json:"_id"`
	Offerer        string    `json:"offerer"`
	Receiver       string    `json:"receiver"`
	OfferedGames   []string  `json:"offeredGames"`
	RequestedGames []string  `json:"requestedGames"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TradeStatusUpdate is published when an offer leaves the pending state.
type TradeStatusUpdate struct {
	TradeID        string   `json:"tradeId"`
	Offerer        string   `json:"offerer"`
	Receiver       string   `json:"receiver"`
	OfferedGames   []string `json:"offeredGames"`
	RequestedGames []string `json:"requestedGames"`
	NewStatus      string   `json:"newStatus"`
}

// UserChange is published when a user's password changes.
type UserChange struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewTradeOfferCreated builds the creation envelope from an offer.
func NewTradeOfferCreated(t *model.TradeOffer) TradeOfferCreated {
	return TradeOfferCreated{
		ID:             t.ID.String(),
		Offerer:        t.OffererID.String(),
		Receiver:       t.ReceiverID.String(),
		OfferedGames:   []string(t.OfferedGames),
		RequestedGames: []string(t.RequestedGames),
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt,
	}
}

// NewTradeStatusUpdate builds the status-change envelope from an offer.
func NewTradeStatusUpdate(t *model.TradeOffer) TradeStatusUpdate {
	return TradeStatusUpdate{
		TradeID:        t.ID.String(),
		Offerer:        t.OffererID.String(),
		Receiver:       t.ReceiverID.String(),
		OfferedGames:   []string(t.OfferedGames),
		RequestedGames: []string(t.RequestedGames),
		NewStatus:      string(t.Status),
	}
}

// NewUserChange builds the password-change envelope from a user.
func NewUserChange(u *model.User) UserChange {
	return UserChange{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
