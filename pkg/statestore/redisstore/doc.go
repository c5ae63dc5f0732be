// Package redisstore implements statestore.Store on Redis using
// github.com/redis/go-redis/v9.
//
//	cfg, err := redisstore.ConfigFromEnv("")
//	if err != nil {
//		return err
//	}
//	client, err := redisstore.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := redisstore.New(client, redisstore.FromConfig(cfg))
package redisstore
