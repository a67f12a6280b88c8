package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gameswap/internal/event"
	"gameswap/internal/model"
	"gameswap/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	from    string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, from, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, from: from, subject: subject, body: body})
	return nil
}

// fakeReader feeds a fixed message sequence, then cancels the consumer
// context so Start returns.
type fakeReader struct {
	messages  []kafka.Message
	next      int
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.next >= len(r.messages) {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.next]
	r.next++
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

type notifierFixture struct {
	store  *storetest.Memory
	mailer *fakeMailer
	alice  *model.User
	bob    *model.User
	game   *model.Game
}

func newNotifierFixture(t *testing.T) *notifierFixture {
	t.Helper()
	f := &notifierFixture{
		store:  storetest.NewMemory(),
		mailer: &fakeMailer{},
		alice:  &model.User{ID: uuid.New(), Name: "alice", Email: "alice@example.com"},
		bob:    &model.User{ID: uuid.New(), Name: "bob", Email: "bob@example.com"},
	}
	f.store.AddUser(f.alice)
	f.store.AddUser(f.bob)
	f.game = &model.Game{
		ID:        uuid.New(),
		Title:     "Chrono Quest",
		Publisher: "Retro Soft",
		Price:     29.99,
		Condition: model.ConditionGood,
		OwnerID:   f.alice.ID,
	}
	f.store.AddGame(f.game)
	return f
}

func (f *notifierFixture) notifier(reader Reader) *Notifier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(reader, f.store, f.mailer, "noreply@gameswap.local", logger, nil)
}

func (f *notifierFixture) offerPayload(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(event.TradeOfferCreated{
		ID:             uuid.NewString(),
		Offerer:        f.alice.ID.String(),
		Receiver:       f.bob.ID.String(),
		OfferedGames:   []string{f.game.ID.String()},
		RequestedGames: nil,
		Status:         "pending",
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
	return data
}

func TestHandleTradeOfferSendsBothEmails(t *testing.T) {
	f := newNotifierFixture(t)
	n := f.notifier(nil)

	err := n.handleMessage(context.Background(), kafka.Message{
		Topic: event.TopicTradeOffers,
		Value: f.offerPayload(t),
	})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 2)
	receiverMail, offererMail := f.mailer.sent[0], f.mailer.sent[1]

	assert.Equal(t, "bob@example.com", receiverMail.to)
	assert.Equal(t, "New Trade Offer Received", receiverMail.subject)
	assert.Equal(t, "Trade Notifications <noreply@gameswap.local>", receiverMail.from)

	assert.Equal(t, "alice@example.com", offererMail.to)
	assert.Equal(t, "Your Trade Offer Was Sent", offererMail.subject)

	assert.Contains(t, receiverMail.body, "Chrono Quest by Retro Soft")
	assert.Contains(t, receiverMail.body, "Price: $29.99")
	assert.Contains(t, receiverMail.body, "Requested Games:\nNone")
}

func TestHandleTradeOfferMissingUser(t *testing.T) {
	f := newNotifierFixture(t)
	n := f.notifier(nil)

	payload, err := json.Marshal(event.TradeOfferCreated{
		ID:       uuid.NewString(),
		Offerer:  f.alice.ID.String(),
		Receiver: uuid.NewString(),
		Status:   "pending",
	})
	require.NoError(t, err)

	err = n.handleMessage(context.Background(), kafka.Message{
		Topic: event.TopicTradeOffers,
		Value: payload,
	})
	require.Error(t, err)
	assert.Empty(t, f.mailer.sent, "no email when a party cannot be resolved")
}

func TestHandleTradeOfferUnknownGamePlaceholders(t *testing.T) {
	f := newNotifierFixture(t)
	n := f.notifier(nil)

	payload, err := json.Marshal(event.TradeOfferCreated{
		ID:           uuid.NewString(),
		Offerer:      "alice",
		Receiver:     "bob",
		OfferedGames: []string{uuid.NewString()},
		Status:       "pending",
	})
	require.NoError(t, err)

	err = n.handleMessage(context.Background(), kafka.Message{
		Topic: event.TopicTradeOffers,
		Value: payload,
	})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 2)
	body := f.mailer.sent[0].body
	assert.Contains(t, body, "Unknown Game by Unknown Publisher")
	assert.Contains(t, body, "Price: N/A")
	assert.Contains(t, body, "Condition: N/A")
}

func TestHandleStatusUpdate(t *testing.T) {
	f := newNotifierFixture(t)
	n := f.notifier(nil)

	payload, err := json.Marshal(event.TradeStatusUpdate{
		TradeID:      uuid.NewString(),
		Offerer:      f.alice.ID.String(),
		Receiver:     f.bob.ID.String(),
		OfferedGames: []string{f.game.ID.String()},
		NewStatus:    "accepted",
	})
	require.NoError(t, err)

	err = n.handleMessage(context.Background(), kafka.Message{
		Topic: event.TopicStatusUpdate,
		Value: payload,
	})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 2)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].to)
	assert.Equal(t, "Your Trade Offer Was Accepted", f.mailer.sent[0].subject)
	assert.Equal(t, "bob@example.com", f.mailer.sent[1].to)
	assert.Equal(t, "You Accepted a Trade Offer", f.mailer.sent[1].subject)
	assert.Contains(t, f.mailer.sent[0].body, "game ownership has been transferred")
}

func TestHandleUserChange(t *testing.T) {
	f := newNotifierFixture(t)
	n := f.notifier(nil)

	payload, err := json.Marshal(event.UserChange{
		ID:    f.alice.ID.String(),
		Name:  "alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	err = n.handleMessage(context.Background(), kafka.Message{
		Topic: event.TopicUserChanges,
		Value: payload,
	})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	m := f.mailer.sent[0]
	assert.Equal(t, "alice@example.com", m.to)
	assert.Equal(t, "Password Changed", m.subject)
	assert.Equal(t, "Account Security <noreply@gameswap.local>", m.from)
	assert.True(t, strings.Contains(m.body, "Hello alice,"))
}

func TestHandleMessageBadInput(t *testing.T) {
	f := newNotifierFixture(t)
	n := f.notifier(nil)

	t.Run("malformed json", func(t *testing.T) {
		err := n.handleMessage(context.Background(), kafka.Message{
			Topic: event.TopicTradeOffers,
			Value: []byte("{not json"),
		})
		assert.Error(t, err)
	})

	t.Run("unknown topic", func(t *testing.T) {
		err := n.handleMessage(context.Background(), kafka.Message{
			Topic: "mystery-topic",
			Value: []byte("{}"),
		})
		assert.Error(t, err)
	})

	assert.Empty(t, f.mailer.sent)
}

func TestStartCommitsFailedMessages(t *testing.T) {
	f := newNotifierFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafka.Message{
			{Topic: event.TopicTradeOffers, Value: []byte("{not json"), Offset: 1},
			{Topic: event.TopicTradeOffers, Value: f.offerPayload(t), Offset: 2},
		},
	}

	n := f.notifier(reader)
	require.NoError(t, n.Start(ctx))

	// Both messages committed: the broken one is logged and skipped,
	// never retried, and does not block the one behind it.
	require.Len(t, reader.committed, 2)
	assert.Equal(t, int64(1), reader.committed[0].Offset)
	assert.Equal(t, int64(2), reader.committed[1].Offset)
	assert.Len(t, f.mailer.sent, 2)
}

func TestStartDuplicateDelivery(t *testing.T) {
	f := newNotifierFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	payload := f.offerPayload(t)
	reader := &fakeReader{
		cancel: cancel,
		messages: []kafka.Message{
			{Topic: event.TopicTradeOffers, Value: payload, Offset: 1},
			{Topic: event.TopicTradeOffers, Value: payload, Offset: 1},
		},
	}

	n := f.notifier(reader)
	require.NoError(t, n.Start(ctx))

	// At-least-once with no dedup: a redelivered message mails again.
	assert.Len(t, f.mailer.sent, 4)
}

func TestStartMailFailureStillCommits(t *testing.T) {
	f := newNotifierFixture(t)
	f.mailer.err = errors.New("smtp down")
	ctx, cancel := context.WithCancel(context.Background())

	reader := &fakeReader{
		cancel:   cancel,
		messages: []kafka.Message{{Topic: event.TopicTradeOffers, Value: f.offerPayload(t), Offset: 7}},
	}

	n := f.notifier(reader)
	require.NoError(t, n.Start(ctx))

	require.Len(t, reader.committed, 1)
	assert.Empty(t, f.mailer.sent)
}
