package statemachine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transitions/pkg/statemachine"
)

// record is an owner backed by an in-memory row. It implements every optional hook
// and logs each call.
type record struct {
	*statemachine.Object
	stored     map[string]string
	stamps     map[string]time.Time
	calls      []string
	readErr    error
	writeErr   error
	firedErr   error
	failedSeen []string
}

func newRecord(typ *statemachine.Type) *record {
	r := &record{stored: map[string]string{}, stamps: map[string]time.Time{}}
	r.Object = typ.Bind(r)
	return r
}

func (r *record) ReadState(_ context.Context, m *statemachine.Machine) (string, error) {
	r.calls = append(r.calls, "read:"+m.Name())
	if r.readErr != nil {
		return "", r.readErr
	}
	return r.stored[m.Name()], nil
}

func (r *record) WriteState(_ context.Context, m *statemachine.Machine, state string) error {
	r.calls = append(r.calls, "write:"+state)
	if r.writeErr != nil {
		return r.writeErr
	}
	r.stored[m.Name()] = state
	return nil
}

func (r *record) WriteStateWithoutPersistence(_ context.Context, _ *statemachine.Machine, state string) error {
	r.calls = append(r.calls, "mirror:"+state)
	return nil
}

func (r *record) EventFired(_ context.Context, _ *statemachine.Machine, from, to, event string) error {
	r.calls = append(r.calls, fmt.Sprintf("fired:%s:%s->%s", event, from, to))
	return r.firedErr
}

func (r *record) EventFailed(_ context.Context, _ *statemachine.Machine, event string) error {
	r.failedSeen = append(r.failedSeen, event)
	return nil
}

func (r *record) WriteTimestamp(_ context.Context, _ *statemachine.Machine, state string, at time.Time) error {
	r.stamps[state] = at
	return nil
}

func recordType(t *testing.T, opts ...statemachine.TypeOption) *statemachine.Type {
	t.Helper()
	typ := statemachine.NewType("Record", opts...)
	_, err := typ.StateMachine("", func(b *statemachine.Builder) {
		b.Initial("pending")
		b.Event("approve", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("pending"), statemachine.To("approved"))
		}, statemachine.WithTimestamp(), statemachine.OnSuccess(func(_ context.Context, owner any, _ ...any) error {
			r := owner.(*record)
			r.calls = append(r.calls, "success")
			return nil
		}))
		b.Event("archive", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("approved"), statemachine.To("archived"))
		})
	})
	require.NoError(t, err)
	return typ
}

func TestReadHook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stored value wins over initial", func(t *testing.T) {
		t.Parallel()
		r := newRecord(recordType(t))
		r.stored["default"] = "approved"

		state, err := r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "approved", state)

		_, err = r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"read:default"}, r.calls, "the read hook runs once")
	})

	t.Run("empty value falls back to initial", func(t *testing.T) {
		t.Parallel()
		r := newRecord(recordType(t))
		state, err := r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "pending", state)
	})

	t.Run("read errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection reset")
		r := newRecord(recordType(t))
		r.readErr = boom
		_, err := r.CurrentState(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("forget reloads from storage", func(t *testing.T) {
		t.Parallel()
		r := newRecord(recordType(t))
		_, err := r.CurrentState(ctx)
		require.NoError(t, err)

		r.stored["default"] = "archived"
		r.Forget("")
		state, err := r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "archived", state)
	})
}

func TestWriteHooks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fire without persistence only mirrors", func(t *testing.T) {
		t.Parallel()
		r := newRecord(recordType(t))
		require.NoError(t, r.Fire(ctx, "approve"))
		assert.Equal(t, []string{
			"read:default",
			"mirror:approved",
			"fired:approve:pending->approved",
			"success",
		}, r.calls)
		assert.Empty(t, r.stored)
	})

	t.Run("fire and persist writes before mirroring", func(t *testing.T) {
		t.Parallel()
		r := newRecord(recordType(t))
		require.NoError(t, r.FireAndPersist(ctx, "approve"))
		assert.Equal(t, []string{
			"read:default",
			"write:approved",
			"mirror:approved",
			"fired:approve:pending->approved",
			"success",
		}, r.calls)
		assert.Equal(t, "approved", r.stored["default"])
	})

	t.Run("write failure keeps the old state", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("disk full")
		r := newRecord(recordType(t))
		r.writeErr = boom

		assert.ErrorIs(t, r.FireAndPersist(ctx, "approve"), boom)
		state, err := r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "pending", state)
		assert.NotContains(t, r.calls, "success")
	})

	t.Run("event fired errors come after the commit", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("audit log unavailable")
		r := newRecord(recordType(t))
		r.firedErr = boom

		m, err := r.Type().Machine("")
		require.NoError(t, err)
		fired, err := m.FireEvent(ctx, r.Object, "approve", false)
		assert.True(t, fired)
		assert.ErrorIs(t, err, boom)

		state, err := r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "approved", state)
	})

	t.Run("set current state skips validation", func(t *testing.T) {
		t.Parallel()
		r := newRecord(recordType(t))
		require.NoError(t, r.SetCurrentState(ctx, "", "imported", true))
		assert.Equal(t, []string{"write:imported", "mirror:imported"}, r.calls)

		state, err := r.CurrentState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "imported", state)
	})
}

func TestEventFailedHook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRecord(recordType(t))

	fired, err := r.TryFire(ctx, "archive")
	require.NoError(t, err)
	assert.False(t, fired)

	assert.True(t, statemachine.IsInvalidTransitionError(r.Fire(ctx, "archive")))
	assert.Equal(t, []string{"archive", "archive"}, r.failedSeen)
}

func TestTimestampedEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mock := clock.NewMock()
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	mock.Set(at)

	r := newRecord(recordType(t, statemachine.WithClock(mock)))
	require.NoError(t, r.Fire(ctx, "approve"))
	assert.Equal(t, at, r.stamps["approved"])

	mock.Add(time.Hour)
	require.NoError(t, r.Fire(ctx, "archive"))
	_, ok := r.stamps["archived"]
	assert.False(t, ok, "archive is not timestamped")
}

func TestTransitionLogging(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	typ := recordType(t, statemachine.WithLogger(slogt.New(t)))
	r := newRecord(typ)
	require.NoError(t, r.Fire(ctx, "approve"))

	sub := typ.Subtype("AuditedRecord")
	child := newRecord(sub)
	require.NoError(t, child.Fire(ctx, "approve"))
}
