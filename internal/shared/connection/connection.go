package connection

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongoWithRetry dials the document store and pings it before handing
// the database back. Retries with a fixed backoff so a cold-started store
// does not kill the process.
func ConnectMongoWithRetry(uri, dbName string, maxRetries int) (*mongo.Database, error) {
	var lastErr error

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(25).
			SetServerSelectionTimeout(5*time.Second))
		if err != nil {
			cancel()
			lastErr = err
			log.Printf("mongo connect failed (%d/%d): %v", i, maxRetries, err)
			time.Sleep(5 * time.Second)
			continue
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			cancel()
			lastErr = err
			log.Printf("mongo ping failed (%d/%d): %v", i, maxRetries, err)
			time.Sleep(5 * time.Second)
			continue
		}

		cancel()
		log.Println("connected to mongo")
		return client.Database(dbName), nil
	}

	return nil, fmt.Errorf("mongo connection failed after %d retries: %w", maxRetries, lastErr)
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	for i := 1; i <= maxRetries; i++ {
		ctx := context.Background()
		if err := rdb.Ping(ctx).Err(); err == nil {
			log.Println("connected to redis")
			return rdb, nil
		}

		log.Printf("redis retry %d/%d failed", i, maxRetries)
		time.Sleep(5 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect redis")
}
