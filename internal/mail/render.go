// Package mail renders and sends notification emails. Rendering is
// pure: the same view always yields the same subject and body.
package mail

import (
	"fmt"
	"strings"
	"time"
)

// Role distinguishes which side of the trade receives the email.
type Role int

const (
	RoleOfferer Role = iota
	RoleReceiver
)

// UserView is the presentation-ready form of a user.
type UserView struct {
	ID    string
	Name  string
	Email string
}

// GameView is the presentation-ready form of a game. Fields referencing
// a game missing from the store carry placeholder values.
type GameView struct {
	ID        string
	Title     string
	Publisher string
	Price     string
	Condition string
}

// TradeView is the denormalized, enriched form of a trade offer.
type TradeView struct {
	TradeID        string
	Offerer        UserView
	Receiver       UserView
	OfferedGames   []GameView
	RequestedGames []GameView
	Status         string
}

// RenderTradeOffer renders the offer-created notification for one party.
func RenderTradeOffer(v TradeView, role Role) (subject, body string) {
	tradeType := "sent"
	callToAction := "The other user will be notified to review your offer."
	subject = "Your Trade Offer Was Sent"
	if role == RoleReceiver {
		tradeType = "received"
		callToAction = "Please review and accept or reject this trade offer."
		subject = "New Trade Offer Received"
	}

	body = fmt.Sprintf(`New Trade Offer %s!

Trade ID: %s

Offerer: %s
Receiver: %s

Offered Games:
%s

Requested Games:
%s

Status: %s

%s
`,
		strings.ToUpper(tradeType),
		v.TradeID,
		formatUser(v.Offerer),
		formatUser(v.Receiver),
		formatGames(v.OfferedGames),
		formatGames(v.RequestedGames),
		v.Status,
		callToAction,
	)
	return subject, body
}

// RenderStatusUpdate renders the accepted/rejected notification for one
// party. Subject framing depends on the recipient's role.
func RenderStatusUpdate(v TradeView, role Role) (subject, body string) {
	statusText := "Rejected"
	outcome := "No changes have been made to game ownership."
	if v.Status == "accepted" {
		statusText = "Accepted"
		outcome = "The trade has been completed and game ownership has been transferred."
	}

	if role == RoleOfferer {
		subject = fmt.Sprintf("Your Trade Offer Was %s", statusText)
	} else {
		subject = fmt.Sprintf("You %s a Trade Offer", statusText)
	}

	body = fmt.Sprintf(`Trade Offer %s!

Trade ID: %s

Offerer: %s
Receiver: %s

Offered Games:
%s

Requested Games:
%s

Status: %s

%s
`,
		strings.ToUpper(v.Status),
		v.TradeID,
		formatUser(v.Offerer),
		formatUser(v.Receiver),
		formatGames(v.OfferedGames),
		formatGames(v.RequestedGames),
		v.Status,
		outcome,
	)
	return subject, body
}

// RenderPasswordChange renders the credential-change confirmation.
func RenderPasswordChange(name string, at time.Time) (subject, body string) {
	subject = "Password Changed"
	body = fmt.Sprintf(`Hello %s,

This is a confirmation that the password for your account was changed at %s.

If you did not make this change, please contact us immediately.

Thank you,
GameSwap Security Team
`,
		name,
		at.Format(time.RFC1123),
	)
	return subject, body
}

func formatUser(u UserView) string {
	return fmt.Sprintf("%s - %s - %s", u.Name, u.Email, u.ID)
}

// formatGames renders a game list as readable text. An empty list
// renders as the literal word "None".
func formatGames(games []GameView) string {
	if len(games) == 0 {
		return "None"
	}

	parts := make([]string, 0, len(games))
	for _, g := range games {
		parts = append(parts, fmt.Sprintf("%s by %s\nPrice: %s\nCondition: %s",
			g.Title, g.Publisher, g.Price, g.Condition))
	}
	return strings.Join(parts, "\n\n")
}
