// Package statemachine attaches declarative finite state machines to any Go type.
//
// An owner type is described by a Type. Each Type holds any number of named
// machines (the unnamed one is called "default"), and every machine declares
// states, events and the guarded transitions between them:
//
//	var documentType = statemachine.NewType("Document")
//
//	func init() {
//	    documentType.MustStateMachine("", func(b *statemachine.Builder) {
//	        b.Initial("pending")
//	        b.State("rejected", statemachine.OnEnter(notifyAuthor))
//	        b.Event("approve", func(e *statemachine.EventBuilder) {
//	            e.Transition(
//	                statemachine.From("pending"),
//	                statemachine.To("approved"),
//	                statemachine.WithGuard(statemachine.GuardOf(hasReviewer)),
//	            )
//	        })
//	    })
//	}
//
// Instances carry an Object obtained from Type.Bind. The Object caches the
// current state of each machine and exposes the runtime surface:
//
//	doc := &Document{}
//	doc.Object = documentType.Bind(doc)
//
//	err := doc.Fire(ctx, "approve")   // strict: *InvalidTransitionError when nothing applies
//	ok, err := doc.TryFire(ctx, "approve")
//	approved, err := doc.Is(ctx, "approved")
//
// # Firing
//
// Firing an event resolves the first transition, in declaration order, that
// leaves the current state and whose guards all pass. The exit actions of the
// old state run, then the transition callbacks, then the enter actions of the new
// state, and only then is the new state committed. An error at any of these steps
// is returned unchanged and the instance keeps its old state.
//
// # Storage
//
// The engine never talks to storage itself. Owners opt in by implementing
// StateReader, StateWriter or StateMirror; see package statestore for ready-made
// implementations.
//
// # Logging
//
// Committed transitions and machine declarations are logged at debug level to
// the logger passed with WithLogger; without one nothing is logged. A logger
// configured from the environment comes from package logger:
//
//	cfg, err := logger.ConfigFromEnv("")
//	log, err := logger.FromConfig(cfg)
//	documentType := statemachine.NewType("Document", statemachine.WithLogger(log))
//
// # Inheritance
//
// Type.Subtype copies the parent's registry. Extending an inherited machine on the
// subtype builds a new Machine for the subtype only; Machines are immutable and
// Type.StateMachine or Machine.Update always return a fresh one.
//
// # Method names
//
// Every state claims a predicate name ("approved?") and every event claims its
// trigger names ("approve", "approve!", "can_approve?") on the Type. Claiming a
// name already owned by another machine, or reserved with Reserve, fails with
// ErrInvalidMethodOverride unless the Type was created with AllowOverride.
package statemachine
