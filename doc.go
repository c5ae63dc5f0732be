// Package transitions is a declarative finite state machine toolkit for Go types.
//
// The work happens in the packages under pkg/:
//
//   - statemachine: states, events, guarded transitions and the per-type registry.
//   - statestore: durable state through Store implementations for memory, Redis,
//     PostgreSQL and MongoDB.
//   - blueprint: machines declared from YAML documents.
//   - inspect: a read-only HTTP view of declared machines.
//   - logger and config: the slog and environment helpers shared by the above.
//
// Basic usage:
//
//	var documentType = statemachine.NewType("Document")
//
//	func init() {
//		documentType.MustStateMachine("", func(b *statemachine.Builder) {
//			b.Initial("pending")
//			b.Event("approve", func(e *statemachine.EventBuilder) {
//				e.Transition(statemachine.From("pending"), statemachine.To("approved"))
//			})
//		})
//	}
//
//	doc := &Document{}
//	doc.Object = documentType.Bind(doc)
//	if err := doc.Fire(ctx, "approve"); err != nil {
//		// statemachine.IsInvalidTransitionError(err) when nothing applies
//	}
package transitions
