// Package redis connects to Redis and stores sessions in it.
//
// Connect parses a redis:// or rediss:// URL, then pings with exponential
// backoff until the server answers or the attempts or timeout run out.
// Healthcheck returns a ping probe for readiness endpoints.
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0", RetryAttempts: 3})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redis.NewStore[Cart](client, "session:")
//	sessions := session.NewManager[Cart](store, session.Config{TTL: time.Hour})
//
// Session data is stored as JSON under prefix+id with the manager's TTL, so
// expiry is handled by Redis itself.
package redis
