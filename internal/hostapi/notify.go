package hostapi

import (
	"context"
	"log/slog"
)

// SessionExpiredMessage is shown to the user when the backend rejects the token
const SessionExpiredMessage = "Session expired. Please log in again."

// Notifier is told when a 401 has cleared the local session
type Notifier interface {
	SessionExpired(ctx context.Context)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context)

// SessionExpired calls f
func (f NotifierFunc) SessionExpired(ctx context.Context) {
	f(ctx)
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) SessionExpired(ctx context.Context) {
	n.logger.WarnContext(ctx, SessionExpiredMessage)
}
