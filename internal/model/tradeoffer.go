package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TradeStatus is the lifecycle state of a trade offer.
// Once an offer leaves "pending" it never transitions again.
type TradeStatus string

const (
	StatusPending  TradeStatus = "pending"
	StatusAccepted TradeStatus = "accepted"
	StatusRejected TradeStatus = "rejected"
)

// CascadeRejectionReason is stored on offers rejected because another
// accepted trade transferred ownership of a game they reference.
const CascadeRejectionReason = "Another trade involving these games was accepted"

// TradeOffer is a proposed exchange of games between two users.
// OfferedGames and RequestedGames hold game ids as uuid strings so the
// sets map onto Postgres text[] columns and the overlap operator.
type TradeOffer struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OffererID       uuid.UUID      `gorm:"column:offerer_id;type:uuid" json:"offerer"`
	ReceiverID      uuid.UUID      `gorm:"column:receiver_id;type:uuid" json:"receiver"`
	OfferedGames    pq.StringArray `gorm:"column:offered_games;type:text[]" json:"offered_games"`
	RequestedGames  pq.StringArray `gorm:"column:requested_games;type:text[]" json:"requested_games"`
	Status          TradeStatus    `gorm:"column:status" json:"status"`
	RejectionReason string         `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"created_at"`
	CompletedAt     *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (TradeOffer) TableName() string {
	return "trade_offers"
}

// AllGames returns the union of offered and requested game ids.
func (t *TradeOffer) AllGames() []string {
	all := make([]string, 0, len(t.OfferedGames)+len(t.RequestedGames))
	all = append(all, t.OfferedGames...)
	all = append(all, t.RequestedGames...)
	return all
}
