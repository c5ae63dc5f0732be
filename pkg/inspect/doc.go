// Package inspect serves a read-only description of declared state machines over
// HTTP, built on github.com/go-chi/chi/v5.
//
//	r := chi.NewRouter()
//	r.Mount("/fsm", inspect.Router(
//		[]*statemachine.Type{documentType, orderType},
//		inspect.WithLogger(log),
//		inspect.WithHealthchecks(redisstore.Healthcheck(client)),
//	))
package inspect
