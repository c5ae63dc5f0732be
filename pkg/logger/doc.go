// Package logger builds *slog.Logger values for the state machine packages and
// provides the attribute helpers they log with.
//
// New takes options for the format (JSON or text), level, output, static
// attributes and context values. FromConfig does the same from a Config read
// with ConfigFromEnv (LOG_LEVEL, LOG_FORMAT, LOG_SERVICE):
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	orderType := statemachine.NewType("Order", statemachine.WithLogger(log))
//
// Transitions are logged at debug level with the Machine, Transition and
// Persisted attributes; storage adapters add StoreKey. Error returns an empty
// attribute for a nil error so it can be passed unconditionally.
package logger
