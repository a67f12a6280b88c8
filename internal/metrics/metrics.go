// Package metrics holds the OpenTelemetry instruments shared by the
// trade API and the notifier. Instrument names follow the
// counter/histogram/gauge points the notification pipeline reports on.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	messagesProcessed  metric.Int64Counter
	processingDuration metric.Float64Histogram
	emailsSent         metric.Int64Counter
	errorsTotal        metric.Int64Counter
	usersRegistered    metric.Int64Counter
	tradesAccepted     metric.Int64Counter
	storeStatus        metric.Int64Gauge
	busStatus          metric.Int64Gauge
}

func New(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	m.messagesProcessed, err = meter.Int64Counter("gameswap.messages.processed",
		metric.WithDescription("Total number of bus messages processed"))
	if err != nil {
		return nil, err
	}
	m.processingDuration, err = meter.Float64Histogram("gameswap.message.processing.duration",
		metric.WithDescription("Duration of message processing in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	m.emailsSent, err = meter.Int64Counter("gameswap.emails.sent",
		metric.WithDescription("Total number of notification emails sent"))
	if err != nil {
		return nil, err
	}
	m.errorsTotal, err = meter.Int64Counter("gameswap.errors",
		metric.WithDescription("Total number of errors by operation and error type"))
	if err != nil {
		return nil, err
	}
	m.usersRegistered, err = meter.Int64Counter("gameswap.users.registered",
		metric.WithDescription("Total number of registered users"))
	if err != nil {
		return nil, err
	}
	m.tradesAccepted, err = meter.Int64Counter("gameswap.trades.accepted",
		metric.WithDescription("Total number of accepted trade offers"))
	if err != nil {
		return nil, err
	}
	m.storeStatus, err = meter.Int64Gauge("gameswap.store.connection.status",
		metric.WithDescription("Store connection status (1 = connected, 0 = disconnected)"))
	if err != nil {
		return nil, err
	}
	m.busStatus, err = meter.Int64Gauge("gameswap.bus.connection.status",
		metric.WithDescription("Bus connection status (1 = connected, 0 = disconnected)"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Metrics) MessageProcessed(ctx context.Context, topic string) {
	m.messagesProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

func (m *Metrics) ObserveProcessing(ctx context.Context, topic string, d time.Duration) {
	m.processingDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("topic", topic)))
}

func (m *Metrics) EmailSent(ctx context.Context, notificationType string) {
	m.emailsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("type", notificationType)))
}

func (m *Metrics) RecordError(ctx context.Context, operation, errorType string) {
	m.errorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("error_type", errorType),
	))
}

func (m *Metrics) UserRegistered(ctx context.Context) {
	m.usersRegistered.Add(ctx, 1)
}

func (m *Metrics) TradeAccepted(ctx context.Context) {
	m.tradesAccepted.Add(ctx, 1)
}

func (m *Metrics) SetStoreUp(ctx context.Context, up bool) {
	m.storeStatus.Record(ctx, boolGauge(up))
}

func (m *Metrics) SetBusUp(ctx context.Context, up bool) {
	m.busStatus.Record(ctx, boolGauge(up))
}

func boolGauge(up bool) int64 {
	if up {
		return 1
	}
	return 0
}
