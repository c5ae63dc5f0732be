package logger

import "log/slog"

// Error records err under "error". A nil err yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting package under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Owner records the owner type name under "owner".
func Owner(name string) slog.Attr {
	return slog.String("owner", name)
}

// Machine records the state machine name under "machine".
func Machine(name string) slog.Attr {
	return slog.String("machine", name)
}

// Event records the fired event under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func FromState(state string) slog.Attr {
	return slog.String("from", state)
}

func ToState(state string) slog.Attr {
	return slog.String("to", state)
}

// Persisted records whether a state write went to durable storage.
func Persisted(v bool) slog.Attr {
	return slog.Bool("persisted", v)
}

// StoreKey records a storage key under "key". Empty keys yield an empty Attr.
func StoreKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("key", key)
}

// Transition groups the three attributes of a state change.
func Transition(event, from, to string) slog.Attr {
	return slog.Attr{Key: "transition", Value: slog.GroupValue(
		Event(event), FromState(from), ToState(to),
	)}
}
