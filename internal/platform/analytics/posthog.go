// Package analytics forwards product events to PostHog. A client without an API key is a no-op.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

const (
	EventTransactionSubmitted = "transaction_submitted"
	EventTransactionDecided   = "transaction_decided"
	EventBalanceOverridden    = "balance_overridden"
	EventAccountStatusChanged = "account_status_changed"
	EventAccountRegistered    = "account_registered"
)

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// PosthogClientWrapper wraps posthog.Client so that callers need not care whether it is configured.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

var _ Publisher = (*PosthogClientWrapper)(nil)

// NewPosthogClient returns a wrapper; with an empty apiKey every call is dropped.
func NewPosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{logger: logger}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil && w.logger != nil {
		w.logger.Warn("Failed to flush posthog client", slog.String("error", err.Error()))
	}
}
