package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransfer indicates funds moved between two wallets.
	KindTransfer = "transfer"
	// KindApprovalRequired indicates a transaction is waiting for manual resolution.
	KindApprovalRequired = "approval_required"
	// KindResolved indicates a pending transaction was approved or denied.
	KindResolved = "transaction_resolved"
)

// Message describes a notification payload.
type Message struct {
	Kind          string
	OwnerID       int64
	TransactionID int64
	Body          string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", message.Kind,
		"owner_id", message.OwnerID,
		"transaction_id", message.TransactionID,
		"body", message.Body)
	return nil
}
