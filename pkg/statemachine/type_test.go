package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transitions/pkg/statemachine"
)

func TestIndependentMachines(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	typ := statemachine.NewType("Article")
	typ.MustStateMachine("status", func(b *statemachine.Builder) {
		b.Initial("draft")
		b.Event("publish", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("draft"), statemachine.To("published"))
		})
	})
	typ.MustStateMachine("review", func(b *statemachine.Builder) {
		b.Initial("unreviewed")
		b.Event("mark_reviewed", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("unreviewed"), statemachine.To("reviewed"))
		})
	})
	article := newDocument(typ)

	require.NoError(t, article.Fire(ctx, "mark_reviewed"))

	status, err := article.CurrentStateOf(ctx, "status")
	require.NoError(t, err)
	assert.Equal(t, "draft", status)
	review, err := article.CurrentStateOf(ctx, "review")
	require.NoError(t, err)
	assert.Equal(t, "reviewed", review)

	reviewed, err := article.Is(ctx, "reviewed")
	require.NoError(t, err)
	assert.True(t, reviewed)
	draft, err := article.Is(ctx, "draft")
	require.NoError(t, err)
	assert.True(t, draft)

	statusMachine, err := typ.Machine("status")
	require.NoError(t, err)
	reviewMachine, err := typ.Machine("review")
	require.NoError(t, err)
	assert.NotEqual(t, statusMachine.StateVariable(), reviewMachine.StateVariable())

	names := []string{}
	for _, m := range typ.Machines() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"review", "status"}, names)
}

func TestIncrementalDeclaration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	typ := statemachine.NewType("Order")
	first := typ.MustStateMachine("", func(b *statemachine.Builder) {
		b.Initial("cart")
		b.Event("checkout", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("cart"), statemachine.To("placed"))
		})
	})
	second := typ.MustStateMachine("", func(b *statemachine.Builder) {
		b.Event("ship", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("placed"), statemachine.To("shipped"))
		})
		b.Event("checkout", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("abandoned"), statemachine.To("placed"))
		})
	})

	assert.NotSame(t, first, second)
	assert.Equal(t, []string{"cart", "placed"}, first.AvailableStates())
	assert.Equal(t, []string{"abandoned", "cart", "placed", "shipped"}, second.AvailableStates())
	assert.Equal(t, "cart", second.InitialState())

	checkout, ok := second.Event("checkout")
	require.True(t, ok)
	assert.Len(t, checkout.Transitions(), 2)
	old, ok := first.Event("checkout")
	require.True(t, ok)
	assert.Len(t, old.Transitions(), 1, "earlier machine is not mutated")

	order := newDocument(typ)
	require.NoError(t, order.Fire(ctx, "checkout"))
	require.NoError(t, order.Fire(ctx, "ship"))
	shipped, err := order.Is(ctx, "shipped")
	require.NoError(t, err)
	assert.True(t, shipped)
}

func TestMachineUpdate(t *testing.T) {
	t.Parallel()
	base := statemachine.MustNew("", func(b *statemachine.Builder) {
		b.State("on")
		b.State("off")
	})
	updated, err := base.Update(func(b *statemachine.Builder) {
		b.Initial("off")
		b.State("broken", statemachine.WithDisplayName("Out of order"))
	})
	require.NoError(t, err)

	assert.Equal(t, "on", base.InitialState())
	assert.Equal(t, []string{"off", "on"}, base.AvailableStates())
	assert.Equal(t, "off", updated.InitialState())
	assert.Equal(t, []string{"broken", "off", "on"}, updated.AvailableStates())
	assert.Equal(t, []statemachine.SelectOption{
		{Label: "On", Value: "on"},
		{Label: "Off", Value: "off"},
		{Label: "Out of order", Value: "broken"},
	}, updated.StatesForSelect())
}

func TestSubtypeInheritance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parent := statemachine.NewType("Document")
	parent.MustStateMachine("", func(b *statemachine.Builder) {
		b.Initial("pending")
		b.Event("approve", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("pending"), statemachine.To("approved"))
		})
	})
	child := parent.Subtype("Contract")

	inherited, err := child.Machine("")
	require.NoError(t, err)
	parentMachine, err := parent.Machine("")
	require.NoError(t, err)
	assert.Same(t, parentMachine, inherited, "subtype shares the parent's machine until it extends it")

	child.MustStateMachine("", func(b *statemachine.Builder) {
		b.Event("sign", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("approved"), statemachine.To("signed"))
		})
	})

	after, err := parent.Machine("")
	require.NoError(t, err)
	assert.Same(t, parentMachine, after)
	assert.Equal(t, []string{"approved", "pending"}, after.AvailableStates())

	childMachine, err := child.Machine("")
	require.NoError(t, err)
	assert.Equal(t, []string{"approved", "pending", "signed"}, childMachine.AvailableStates())

	doc := newDocument(parent)
	require.NoError(t, doc.Fire(ctx, "approve"))
	assert.ErrorIs(t, doc.Fire(ctx, "sign"), statemachine.ErrUnknownEvent)

	contract := newDocument(child)
	require.NoError(t, contract.Fire(ctx, "approve"))
	require.NoError(t, contract.Fire(ctx, "sign"))
	state, err := contract.CurrentState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "signed", state)
}

func TestSubtypeSeesLaterParentMachines(t *testing.T) {
	t.Parallel()
	parent := statemachine.NewType("Document")
	child := parent.Subtype("Contract")

	parent.MustStateMachine("archive", func(b *statemachine.Builder) {
		b.Initial("live")
	})

	m, err := child.Machine("archive")
	require.NoError(t, err)
	assert.Equal(t, "live", m.InitialState())

	states, err := child.AvailableStates("archive")
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, states)
	assert.Same(t, parent, child.Parent())
}

func TestMethodOverride(t *testing.T) {
	t.Parallel()

	t.Run("state predicate claimed by another machine", func(t *testing.T) {
		t.Parallel()
		typ := statemachine.NewType("Article")
		typ.MustStateMachine("status", func(b *statemachine.Builder) { b.State("draft") })

		_, err := typ.StateMachine("review", func(b *statemachine.Builder) { b.State("draft") })
		require.Error(t, err)
		assert.True(t, statemachine.IsMethodOverrideError(err))
		assert.ErrorContains(t, err, `"draft?"`)

		_, err = typ.Machine("review")
		assert.ErrorIs(t, err, statemachine.ErrUnknownMachine, "failed declarations are not registered")
	})

	t.Run("event claimed by another machine", func(t *testing.T) {
		t.Parallel()
		typ := statemachine.NewType("Article")
		typ.MustStateMachine("status", func(b *statemachine.Builder) {
			b.Event("close", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("open"), statemachine.To("closed"))
			})
		})
		_, err := typ.StateMachine("review", func(b *statemachine.Builder) {
			b.Event("close", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("pending"), statemachine.To("done"))
			})
		})
		assert.ErrorIs(t, err, statemachine.ErrInvalidMethodOverride)
	})

	t.Run("parent claims a name after the subtype is created", func(t *testing.T) {
		t.Parallel()
		parent := statemachine.NewType("Account")
		child := parent.Subtype("BusinessAccount")
		parent.MustStateMachine("a", func(b *statemachine.Builder) {
			b.State("active")
			b.Event("close", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("active"), statemachine.To("closed"))
			})
		})

		_, err := child.StateMachine("b", func(b *statemachine.Builder) { b.State("active") })
		require.Error(t, err)
		assert.True(t, statemachine.IsMethodOverrideError(err))
		assert.ErrorContains(t, err, `"active?" of machine "b" is already defined by machine "a"`)

		_, err = child.StateMachine("c", func(b *statemachine.Builder) {
			b.Event("close", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("open"), statemachine.To("shut"))
			})
		})
		assert.ErrorIs(t, err, statemachine.ErrInvalidMethodOverride)

		_, err = child.StateMachine("a", func(b *statemachine.Builder) { b.State("frozen") })
		require.NoError(t, err, "extending the inherited machine keeps its own names")
		assert.Equal(t, []string{"active?", "closed?", "frozen?"}, child.Predicates())
		assert.Equal(t, []string{"active?", "closed?"}, parent.Predicates())
	})

	t.Run("reserved names", func(t *testing.T) {
		t.Parallel()
		typ := statemachine.NewType("Article", statemachine.Reserve("save", "valid?"))
		_, err := typ.StateMachine("", func(b *statemachine.Builder) { b.State("valid") })
		assert.ErrorIs(t, err, statemachine.ErrInvalidMethodOverride)
		_, err = typ.StateMachine("", func(b *statemachine.Builder) {
			b.Event("save", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("a"), statemachine.To("b"))
			})
		})
		assert.ErrorIs(t, err, statemachine.ErrInvalidMethodOverride)
	})

	t.Run("allow override keeps the latest declaration", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		typ := statemachine.NewType("Article", statemachine.AllowOverride())
		typ.MustStateMachine("status", func(b *statemachine.Builder) { b.State("draft") })
		typ.MustStateMachine("review", func(b *statemachine.Builder) {
			b.Initial("waiting")
			b.State("draft")
		})
		article := newDocument(typ)

		draft, err := article.Is(ctx, "draft")
		require.NoError(t, err)
		assert.False(t, draft, "predicate now reads the review machine")
		assert.Equal(t, []string{"draft?", "waiting?"}, typ.Predicates())
	})
}

func TestInvalidDefinition(t *testing.T) {
	t.Parallel()
	for _, c := range []struct {
		name      string
		configure func(*statemachine.Builder)
	}{
		{"missing destination", func(b *statemachine.Builder) {
			b.Event("go", func(e *statemachine.EventBuilder) { e.Transition(statemachine.From("a")) })
		}},
		{"missing source", func(b *statemachine.Builder) {
			b.Event("go", func(e *statemachine.EventBuilder) { e.Transition(statemachine.To("b")) })
		}},
		{"wildcard destination", func(b *statemachine.Builder) {
			b.Event("go", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("a"), statemachine.To(statemachine.AnyState))
			})
		}},
		{"empty state name", func(b *statemachine.Builder) { b.State("") }},
		{"empty event name", func(b *statemachine.Builder) { b.Event("", nil) }},
		{"empty initial", func(b *statemachine.Builder) { b.Initial("") }},
		{"wildcard initial", func(b *statemachine.Builder) { b.Initial(statemachine.AnyState) }},
		{"empty source", func(b *statemachine.Builder) {
			b.Event("go", func(e *statemachine.EventBuilder) {
				e.Transition(statemachine.From("a", ""), statemachine.To("b"))
			})
		}},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := statemachine.New("", c.configure)
			assert.ErrorIs(t, err, statemachine.ErrInvalidDefinition)
		})
	}

	assert.Panics(t, func() {
		statemachine.MustNew("", func(b *statemachine.Builder) { b.State("") })
	})
}

func TestRedeclaredStateMergesOptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var entered []string
	typ := statemachine.NewType("Task")
	typ.MustStateMachine("", func(b *statemachine.Builder) {
		b.Initial("todo")
		b.State("done", statemachine.OnEnter(func(context.Context, any) error {
			entered = append(entered, "first")
			return nil
		}))
		b.Event("finish", func(e *statemachine.EventBuilder) {
			e.Transition(statemachine.From("todo"), statemachine.To("done"))
		})
	})
	typ.MustStateMachine("", func(b *statemachine.Builder) {
		b.State("done", statemachine.WithDisplayName("Completed"), statemachine.OnEnter(func(context.Context, any) error {
			entered = append(entered, "second")
			return nil
		}))
	})

	m, err := typ.Machine("")
	require.NoError(t, err)
	done, ok := m.State("done")
	require.True(t, ok)
	assert.Equal(t, "Completed", done.DisplayName())

	task := newDocument(typ)
	require.NoError(t, task.Fire(ctx, "finish"))
	assert.Equal(t, []string{"first", "second"}, entered)
}
