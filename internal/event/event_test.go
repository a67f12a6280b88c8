package event

import (
	"encoding/json"
	"testing"
	"time"

	"gameswap/internal/model"

	"github.com/google/uuid"
)

func TestKindForTopic(t *testing.T) {
	tests := []struct {
		topic    string
		expected Kind
	}{
		{TopicTradeOffers, KindTradeOffer},
		{TopicStatusUpdate, KindStatusUpdate},
		{TopicUserChanges, KindUserChange},
		{"some-other-topic", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := KindForTopic(tt.topic); got != tt.expected {
				t.Errorf("Expected kind %d for topic '%s', got %d", tt.expected, tt.topic, got)
			}
		})
	}
}

func TestTradeOfferCreatedWireFormat(t *testing.T) {
	offer := &model.TradeOffer{
		ID:             uuid.New(),
		OffererID:      uuid.New(),
		ReceiverID:     uuid.New(),
		OfferedGames:   []string{"g1"},
		RequestedGames: []string{"g2"},
		Status:         model.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	data, err := json.Marshal(NewTradeOfferCreated(offer))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"_id", "offerer", "receiver", "offeredGames", "requestedGames", "status", "createdAt"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("Expected wire key '%s' to be present", key)
		}
	}
	if wire["_id"] != offer.ID.String() {
		t.Errorf("Expected _id '%s', got '%v'", offer.ID, wire["_id"])
	}
	if wire["status"] != "pending" {
		t.Errorf("Expected status 'pending', got '%v'", wire["status"])
	}
}

func TestTradeStatusUpdateWireFormat(t *testing.T) {
	offer := &model.TradeOffer{
		ID:         uuid.New(),
		OffererID:  uuid.New(),
		ReceiverID: uuid.New(),
		Status:     model.StatusAccepted,
	}

	data, err := json.Marshal(NewTradeStatusUpdate(offer))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if wire["tradeId"] != offer.ID.String() {
		t.Errorf("Expected tradeId '%s', got '%v'", offer.ID, wire["tradeId"])
	}
	if wire["newStatus"] != "accepted" {
		t.Errorf("Expected newStatus 'accepted', got '%v'", wire["newStatus"])
	}
}

func TestUserChangeWireFormat(t *testing.T) {
	user := &model.User{ID: uuid.New(), Name: "alice", Email: "alice@example.com"}

	data, err := json.Marshal(NewUserChange(user))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if wire["_id"] != user.ID.String() {
		t.Errorf("Expected _id '%s', got '%v'", user.ID, wire["_id"])
	}
	if wire["name"] != "alice" || wire["email"] != "alice@example.com" {
		t.Errorf("Unexpected name/email in wire format: %v", wire)
	}
}
