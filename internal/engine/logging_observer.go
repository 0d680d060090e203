package engine

import "log/slog"

// LoggingObserver writes every lifecycle event to a logger at debug level,
// so a command can be traced end to end by its tx_id
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer. A nil logger means slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Debug("command_lifecycle",
		slog.String("event", string(event.Type)),
		slog.String("tx_id", event.TxID),
		slog.Time("timestamp", event.Timestamp),
		slog.Any("data", event.Data),
	)
}
