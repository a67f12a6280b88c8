package mail

import (
	"strings"
	"testing"
	"time"
)

func sampleView(status string) TradeView {
	return TradeView{
		TradeID:  "trade-1",
		Offerer:  UserView{ID: "u1", Name: "alice", Email: "alice@example.com"},
		Receiver: UserView{ID: "u2", Name: "bob", Email: "bob@example.com"},
		OfferedGames: []GameView{
			{ID: "g1", Title: "Chrono Quest", Publisher: "Retro Soft", Price: "$29.99", Condition: "good"},
		},
		RequestedGames: []GameView{
			{ID: "g2", Title: "Star Racer", Publisher: "Nova Games", Price: "$15.00", Condition: "mint"},
		},
		Status: status,
	}
}

func TestRenderTradeOfferSubjects(t *testing.T) {
	view := sampleView("pending")

	subject, body := RenderTradeOffer(view, RoleReceiver)
	if subject != "New Trade Offer Received" {
		t.Errorf("Unexpected receiver subject: %s", subject)
	}
	if !strings.Contains(body, "New Trade Offer RECEIVED!") {
		t.Error("Expected receiver body to announce a received offer")
	}
	if !strings.Contains(body, "Please review and accept or reject this trade offer.") {
		t.Error("Expected receiver call to action")
	}

	subject, body = RenderTradeOffer(view, RoleOfferer)
	if subject != "Your Trade Offer Was Sent" {
		t.Errorf("Unexpected offerer subject: %s", subject)
	}
	if !strings.Contains(body, "New Trade Offer SENT!") {
		t.Error("Expected offerer body to announce a sent offer")
	}
}

func TestRenderTradeOfferBodyContents(t *testing.T) {
	_, body := RenderTradeOffer(sampleView("pending"), RoleReceiver)

	for _, want := range []string{
		"Trade ID: trade-1",
		"alice - alice@example.com - u1",
		"bob - bob@example.com - u2",
		"Chrono Quest by Retro Soft",
		"Price: $29.99",
		"Condition: good",
		"Star Racer by Nova Games",
		"Status: pending",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain '%s'", want)
		}
	}
}

func TestRenderTradeOfferEmptyGameList(t *testing.T) {
	view := sampleView("pending")
	view.RequestedGames = nil

	_, body := RenderTradeOffer(view, RoleReceiver)
	if !strings.Contains(body, "Requested Games:\nNone") {
		t.Error("Expected empty requested list to render as 'None'")
	}
}

func TestRenderStatusUpdateSubjects(t *testing.T) {
	tests := []struct {
		status   string
		role     Role
		expected string
	}{
		{"accepted", RoleOfferer, "Your Trade Offer Was Accepted"},
		{"accepted", RoleReceiver, "You Accepted a Trade Offer"},
		{"rejected", RoleOfferer, "Your Trade Offer Was Rejected"},
		{"rejected", RoleReceiver, "You Rejected a Trade Offer"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			subject, _ := RenderStatusUpdate(sampleView(tt.status), tt.role)
			if subject != tt.expected {
				t.Errorf("Expected subject '%s', got '%s'", tt.expected, subject)
			}
		})
	}
}

func TestRenderStatusUpdateOutcome(t *testing.T) {
	_, body := RenderStatusUpdate(sampleView("accepted"), RoleOfferer)
	if !strings.Contains(body, "The trade has been completed and game ownership has been transferred.") {
		t.Error("Expected accepted outcome line")
	}

	_, body = RenderStatusUpdate(sampleView("rejected"), RoleOfferer)
	if !strings.Contains(body, "No changes have been made to game ownership.") {
		t.Error("Expected rejected outcome line")
	}
}

func TestRenderIsPure(t *testing.T) {
	view := sampleView("accepted")
	s1, b1 := RenderStatusUpdate(view, RoleReceiver)
	s2, b2 := RenderStatusUpdate(view, RoleReceiver)
	if s1 != s2 || b1 != b2 {
		t.Error("Expected identical output for identical input")
	}
}

func TestRenderPasswordChange(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	subject, body := RenderPasswordChange("alice", at)

	if subject != "Password Changed" {
		t.Errorf("Unexpected subject: %s", subject)
	}
	if !strings.Contains(body, "Hello alice,") {
		t.Error("Expected greeting with the user's name")
	}
	if !strings.Contains(body, at.Format(time.RFC1123)) {
		t.Error("Expected timestamp in RFC1123 format")
	}
	if !strings.Contains(body, "GameSwap Security Team") {
		t.Error("Expected security team signature")
	}
}
