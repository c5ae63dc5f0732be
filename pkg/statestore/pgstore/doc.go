// Package pgstore implements statestore.Store on PostgreSQL using
// github.com/jackc/pgx/v5. The schema ships as embedded goose migrations:
//
//	pool, err := pgstore.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pgstore.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	store := pgstore.New(pool)
package pgstore
