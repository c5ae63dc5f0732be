package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transitions/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestStateAttrs(t *testing.T) {
	t.Parallel()
	for _, c := range []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.Machine("review"), "machine", "review"},
		{logger.Event("approve"), "event", "approve"},
		{logger.FromState("pending"), "from", "pending"},
		{logger.ToState("approved"), "to", "approved"},
		{logger.Owner("Document"), "owner", "Document"},
		{logger.Component("statestore"), "component", "statestore"},
		{logger.Persisted(true), "persisted", true},
		{logger.StoreKey("Document/1/default"), "key", "Document/1/default"},
	} {
		assert.Equal(t, c.key, c.attr.Key)
		assert.Equal(t, c.want, c.attr.Value.Any())
	}
	assert.True(t, logger.StoreKey("").Equal(slog.Attr{}))
}

func TestTransition(t *testing.T) {
	t.Parallel()
	attr := logger.Transition("approve", "pending", "approved")
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 3)
	assert.Equal(t, "event", g[0].Key)
	assert.Equal(t, "from", g[1].Key)
	assert.Equal(t, "to", g[2].Key)
}
