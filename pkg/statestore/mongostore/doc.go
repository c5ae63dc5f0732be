// Package mongostore implements statestore.Store on MongoDB using
// go.mongodb.org/mongo-driver/v2. Each state key is one document whose _id is
// the key string.
//
//	client, err := mongostore.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := mongostore.NewFromClient(client, cfg)
package mongostore
