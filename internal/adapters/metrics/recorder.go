package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/go-kit/kit/metrics"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	stdprom "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const namespace = "payment_portal"

// Recorder turns domain events and HTTP traffic into Prometheus series.
type Recorder struct {
	bankLinks       metrics.Counter
	payments        metrics.Counter
	requestDuration metrics.Histogram
	log             zerolog.Logger
}

// NewRecorder registers its collectors on reg. Tests pass a fresh registry.
func NewRecorder(reg stdprom.Registerer, baseLogger *zerolog.Logger) (*Recorder, error) {
	bankLinks := stdprom.NewCounterVec(stdprom.CounterOpts{
		Namespace: namespace,
		Name:      "bank_links_total",
		Help:      "Count of bank accounts linked",
	}, []string{})
	payments := stdprom.NewCounterVec(stdprom.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Count of payment attempts by method and outcome",
	}, []string{"method", "outcome"})
	duration := stdprom.NewHistogramVec(stdprom.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   stdprom.DefBuckets,
	}, []string{"route", "status"})

	for _, c := range []stdprom.Collector{bankLinks, payments, duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return &Recorder{
		bankLinks:       kitprom.NewCounter(bankLinks),
		payments:        kitprom.NewCounter(payments),
		requestDuration: kitprom.NewHistogram(duration),
		log:             baseLogger.With().Str("component", "metrics").Logger(),
	}, nil
}

// Subscribe attaches the recorder to the event topics it counts.
func (r *Recorder) Subscribe(bus ports.EventBus) {
	bus.Subscribe(domain.TopicBankLinked, r.onBankLinked)
	bus.Subscribe(domain.TopicPaymentSucceeded, r.onPayment("succeeded"))
	bus.Subscribe(domain.TopicPaymentFailed, r.onPayment("failed"))
	r.log.Debug().Msg("Recording bank link and payment events")
}

func (r *Recorder) onBankLinked(_ context.Context, _ ports.Event) error {
	r.bankLinks.Add(1)
	return nil
}

func (r *Recorder) onPayment(outcome string) ports.EventHandler {
	return func(_ context.Context, e ports.Event) error {
		ev, ok := e.Data.(domain.PaymentEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
		}
		r.payments.With("method", string(ev.Method), "outcome", outcome).Add(1)
		return nil
	}
}

// ObserveRequest records one served request.
func (r *Recorder) ObserveRequest(route string, status int, took time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.requestDuration.With("route", route, "status", fmt.Sprint(status)).Observe(took.Seconds())
}
