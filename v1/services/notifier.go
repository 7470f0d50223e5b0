package services

import (
	"context"
	"log/slog"
)

// Notifier delivers user-visible notices raised by dashboard actions.
// Implementations must be safe for concurrent use.
type Notifier interface {
	NotifySuccess(ctx context.Context, userID, action, detail string)
	NotifyFailure(ctx context.Context, userID, action, detail string)
}

// LoggingNotifier emits notices to the structured log. It stands in for
// a push channel in deployments that have not wired one up.
type LoggingNotifier struct {
	logger *slog.Logger
}

// NewLoggingNotifier creates a notifier backed by the default logger
func NewLoggingNotifier() *LoggingNotifier {
	return &LoggingNotifier{
		logger: slog.Default().With("component", "notifier"),
	}
}

// NotifySuccess implements Notifier
func (n *LoggingNotifier) NotifySuccess(ctx context.Context, userID, action, detail string) {
	n.logger.InfoContext(ctx, "User notification",
		"userId", userID,
		"action", action,
		"outcome", "success",
		"detail", detail)
}

// NotifyFailure implements Notifier
func (n *LoggingNotifier) NotifyFailure(ctx context.Context, userID, action, detail string) {
	n.logger.WarnContext(ctx, "User notification",
		"userId", userID,
		"action", action,
		"outcome", "failure",
		"detail", detail)
}
