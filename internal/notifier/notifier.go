// Package notifier consumes trade lifecycle events from the bus and
// sends notification emails. Delivery from the bus is at-least-once
// with no deduplication: a message redelivered after a restart produces
// a second email, which is the documented behavior, not a bug.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gameswap/internal/apperr"
	"gameswap/internal/event"
	"gameswap/internal/mail"
	"gameswap/internal/metrics"
	"gameswap/internal/store"

	"github.com/segmentio/kafka-go"
)

// Reader is the slice of kafka.Reader the notifier depends on.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Notifier is the single long-lived consumer. It processes messages
// one at a time, synchronously, including the outbound mail send; a
// slow mail transport therefore throttles consumption.
type Notifier struct {
	reader  Reader
	users   store.UserStore
	games   store.GameStore
	mailer  mail.Mailer
	sender  string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(reader Reader, st store.Store, mailer mail.Mailer, sender string, logger *slog.Logger, m *metrics.Metrics) *Notifier {
	return &Notifier{
		reader:  reader,
		users:   st.Users(),
		games:   st.Games(),
		mailer:  mailer,
		sender:  sender,
		logger:  logger,
		metrics: m,
	}
}

// Start runs the consume loop until ctx is cancelled. Offsets are
// committed after processing, so an in-flight message at shutdown is
// redelivered on restart. A failed message is logged, counted, and
// still committed: one bad message never halts the subscription and
// there is no dead-letter queue.
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notification consumer",
		"topics", []string{event.TopicTradeOffers, event.TopicStatusUpdate, event.TopicUserChanges})

	for {
		msg, err := n.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				n.logger.Info("Notification consumer shutting down")
				return n.reader.Close()
			}
			n.logger.Error("Error fetching message", "error", err)
			if n.metrics != nil {
				n.metrics.RecordError(ctx, "fetch", "connectivity")
				n.metrics.SetBusUp(ctx, false)
			}
			continue
		}
		if n.metrics != nil {
			n.metrics.SetBusUp(ctx, true)
		}

		start := time.Now()
		if err := n.handleMessage(ctx, msg); err != nil {
			n.logger.Error("Failed to process message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
			if n.metrics != nil {
				n.metrics.RecordError(ctx, "process", apperr.Kind(err))
			}
		}
		if n.metrics != nil {
			n.metrics.MessageProcessed(ctx, msg.Topic)
			n.metrics.ObserveProcessing(ctx, msg.Topic, time.Since(start))
		}

		if err := n.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return n.reader.Close()
			}
			n.logger.Error("Failed to commit offset", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
	}
}

// handleMessage dispatches on the envelope kind. The switch is
// exhaustive over event.Kind so a new topic is a compile-visible change
// here, not a silently dropped string.
func (n *Notifier) handleMessage(ctx context.Context, msg kafka.Message) error {
	switch event.KindForTopic(msg.Topic) {
	case event.KindTradeOffer:
		var payload event.TradeOfferCreated
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return fmt.Errorf("parse trade offer event: %w", err)
		}
		return n.handleTradeOffer(ctx, payload)
	case event.KindStatusUpdate:
		var payload event.TradeStatusUpdate
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return fmt.Errorf("parse status update event: %w", err)
		}
		return n.handleStatusUpdate(ctx, payload)
	case event.KindUserChange:
		var payload event.UserChange
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return fmt.Errorf("parse user change event: %w", err)
		}
		return n.handleUserChange(ctx, payload)
	case event.KindUnknown:
		return fmt.Errorf("unknown topic %q", msg.Topic)
	}
	return nil
}

// handleTradeOffer notifies both parties that a new offer exists.
func (n *Notifier) handleTradeOffer(ctx context.Context, payload event.TradeOfferCreated) error {
	view, err := n.buildTradeView(ctx, tradeRefs{
		TradeID:        payload.ID,
		Offerer:        payload.Offerer,
		Receiver:       payload.Receiver,
		OfferedGames:   payload.OfferedGames,
		RequestedGames: payload.RequestedGames,
		Status:         payload.Status,
	})
	if err != nil {
		return err
	}

	var errs []error
	subject, body := mail.RenderTradeOffer(*view, mail.RoleReceiver)
	errs = append(errs, n.send(ctx, "trade_offer", view.Receiver.Email, n.tradeSender(), subject, body))

	subject, body = mail.RenderTradeOffer(*view, mail.RoleOfferer)
	errs = append(errs, n.send(ctx, "trade_offer", view.Offerer.Email, n.tradeSender(), subject, body))

	return joinErrs(errs)
}

// handleStatusUpdate notifies both parties of an accept/reject with
// role-specific copy.
func (n *Notifier) handleStatusUpdate(ctx context.Context, payload event.TradeStatusUpdate) error {
	view, err := n.buildTradeView(ctx, tradeRefs{
		TradeID:        payload.TradeID,
		Offerer:        payload.Offerer,
		Receiver:       payload.Receiver,
		OfferedGames:   payload.OfferedGames,
		RequestedGames: payload.RequestedGames,
		Status:         payload.NewStatus,
	})
	if err != nil {
		return err
	}

	var errs []error
	subject, body := mail.RenderStatusUpdate(*view, mail.RoleOfferer)
	errs = append(errs, n.send(ctx, "status_update", view.Offerer.Email, n.tradeSender(), subject, body))

	subject, body = mail.RenderStatusUpdate(*view, mail.RoleReceiver)
	errs = append(errs, n.send(ctx, "status_update", view.Receiver.Email, n.tradeSender(), subject, body))

	return joinErrs(errs)
}

// handleUserChange confirms a password change to the affected user.
// The envelope already carries name and email, no enrichment needed.
func (n *Notifier) handleUserChange(ctx context.Context, payload event.UserChange) error {
	subject, body := mail.RenderPasswordChange(payload.Name, time.Now())
	return n.send(ctx, "password_change", payload.Email, n.securitySender(), subject, body)
}

func (n *Notifier) send(ctx context.Context, notificationType, to, from, subject, body string) error {
	if err := n.mailer.Send(ctx, to, from, subject, body); err != nil {
		if n.metrics != nil {
			n.metrics.RecordError(ctx, "send", "mail")
		}
		return fmt.Errorf("send %s notification: %w", notificationType, err)
	}
	if n.metrics != nil {
		n.metrics.EmailSent(ctx, notificationType)
	}
	n.logger.Info("Notification sent", "type", notificationType, "to", to)
	return nil
}

func (n *Notifier) tradeSender() string {
	return fmt.Sprintf("Trade Notifications <%s>", n.sender)
}

func (n *Notifier) securitySender() string {
	return fmt.Sprintf("Account Security <%s>", n.sender)
}

func joinErrs(errs []error) error {
	var joined error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if joined == nil {
			joined = err
		} else {
			joined = fmt.Errorf("%v; %w", joined, err)
		}
	}
	return joined
}
