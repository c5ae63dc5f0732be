// Package statestore persists state machine states outside the owner.
//
// A Store saves one Record per Key (owner type, owner id, machine name).
// Persistence adapts a Store to the statemachine hooks so owners gain durable
// state by embedding it. MemoryStore is the in-process implementation; the
// redisstore, pgstore and mongostore subpackages provide the others.
//
//	store := statestore.NewMemoryStore(statestore.WithCapacity(10_000))
//	order := &Order{Persistence: statestore.NewPersistence(store, "Order", "")}
//	order.Object = orderType.Bind(order)
//
//	_ = order.FireAndPersist(ctx, "checkout") // saved immediately
//	_ = order.Fire(ctx, "ship")               // tracked as dirty
//	_ = order.Flush(ctx)                      // saved now
//
// Failed saves are logged through the logger given with WithLogger, for example
// one built by logger.New(logger.WithLevel(slog.LevelDebug)).
package statestore
