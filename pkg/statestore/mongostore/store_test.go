package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transitions/pkg/statestore"
	"github.com/dmitrymomot/transitions/pkg/statestore/mongostore"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")

	cfg, err := mongostore.ConfigFromEnv("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.ConnectionURL)
	assert.Equal(t, "transitions", cfg.Database)
	assert.Equal(t, "fsm_states", cfg.Collection)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestIntegration(t *testing.T) {
	if os.Getenv("MONGODB_URL") == "" {
		t.Skip("MONGODB_URL is not set")
	}
	ctx := context.Background()

	cfg, err := mongostore.ConfigFromEnv("")
	require.NoError(t, err)
	client, err := mongostore.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, mongostore.Healthcheck(client)(ctx))

	mock := clock.NewMock()
	mock.Set(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
	store := mongostore.NewFromClient(client, cfg, mongostore.WithClock(mock))
	key := statestore.Key{Type: "Order", ID: statestore.NewID(), Machine: "default"}
	t.Cleanup(func() { _ = store.Delete(context.Background(), key) })

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, statestore.ErrNotFound)

	require.NoError(t, store.Save(ctx, key, "placed"))
	require.NoError(t, store.Save(ctx, key, "shipped"))
	rec, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "shipped", rec.State)
	assert.True(t, mock.Now().Equal(rec.UpdatedAt))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, statestore.ErrNotFound)
}
