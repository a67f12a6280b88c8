package notifier

import (
	"context"
	"fmt"

	"gameswap/internal/mail"
	"gameswap/internal/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// tradeRefs carries the bare identifiers from an event envelope before
// enrichment against the store.
type tradeRefs struct {
	TradeID        string
	Offerer        string
	Receiver       string
	OfferedGames   []string
	RequestedGames []string
	Status         string
}

// buildTradeView resolves the user and game references in refs against
// the store. A missing party is fatal for the message, since there is
// nobody to address the email to. A missing game is not: its view slot
// is filled with placeholder text so the rest of the trade still
// renders.
func (n *Notifier) buildTradeView(ctx context.Context, refs tradeRefs) (*mail.TradeView, error) {
	var offerer, receiver *model.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := n.lookupUser(gctx, refs.Offerer)
		if err != nil {
			return fmt.Errorf("resolve offerer %s: %w", refs.Offerer, err)
		}
		offerer = u
		return nil
	})
	g.Go(func() error {
		u, err := n.lookupUser(gctx, refs.Receiver)
		if err != nil {
			return fmt.Errorf("resolve receiver %s: %w", refs.Receiver, err)
		}
		receiver = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	offered, err := n.gameViews(ctx, refs.OfferedGames)
	if err != nil {
		return nil, err
	}
	requested, err := n.gameViews(ctx, refs.RequestedGames)
	if err != nil {
		return nil, err
	}

	return &mail.TradeView{
		TradeID:        refs.TradeID,
		Offerer:        userView(offerer),
		Receiver:       userView(receiver),
		OfferedGames:   offered,
		RequestedGames: requested,
		Status:         refs.Status,
	}, nil
}

// lookupUser resolves a user reference by name first, then by id. Event
// envelopes historically carried either form.
func (n *Notifier) lookupUser(ctx context.Context, ref string) (*model.User, error) {
	if u, err := n.users.FindByName(ctx, ref); err == nil {
		return u, nil
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("user %q not found", ref)
	}
	return n.users.FindByID(ctx, id)
}

// gameViews resolves game ids into presentation views, preserving the
// order of ids. Ids absent from the store render with placeholders.
func (n *Notifier) gameViews(ctx context.Context, ids []string) ([]mail.GameView, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	games, err := n.games.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve games: %w", err)
	}
	byID := make(map[string]*model.Game, len(games))
	for _, g := range games {
		byID[g.ID.String()] = g
	}

	views := make([]mail.GameView, 0, len(ids))
	for _, id := range ids {
		g, ok := byID[id]
		if !ok {
			views = append(views, mail.GameView{
				ID:        id,
				Title:     "Unknown Game",
				Publisher: "Unknown Publisher",
				Price:     "N/A",
				Condition: "N/A",
			})
			continue
		}
		views = append(views, mail.GameView{
			ID:        g.ID.String(),
			Title:     g.Title,
			Publisher: g.Publisher,
			Price:     fmt.Sprintf("$%.2f", g.Price),
			Condition: string(g.Condition),
		})
	}
	return views, nil
}

func userView(u *model.User) mail.UserView {
	return mail.UserView{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
