package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const (
	IngestQueueKey = "earnings:queue:ingest"
	DeadLetterKey  = "earnings:queue:failed"
)

// ConnectRedis connects using the given URL. Redis is optional; callers skip
// queue operations entirely when REDIS_URL is unset.
func ConnectRedis(redisURL string) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

func PushToQueue(queueKey string, data string) error {
	return Redis.LPush(Ctx, queueKey, data).Err()
}

func PopFromQueue(queueKey string, timeout time.Duration) (string, error) {
	result, err := Redis.BRPop(Ctx, timeout, queueKey).Result()
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func QueueLength(queueKey string) (int64, error) {
	return Redis.LLen(Ctx, queueKey).Result()
}

// SweepQueue scans every entry currently in a queue, keeping those the keep
// predicate accepts and dropping the rest. Pops from the tail and pushes kept
// entries back to the head, so one pass visits each original entry once.
// Returns the dropped count.
func SweepQueue(queueKey string, keep func(string) bool) (int, error) {
	length, err := QueueLength(queueKey)
	if err != nil {
		return 0, err
	}

	dropped := 0
	for i := int64(0); i < length; i++ {
		entry, err := PopFromQueue(queueKey, time.Second)
		if err != nil {
			return dropped, err
		}
		if !keep(entry) {
			dropped++
			continue
		}
		if err := PushToQueue(queueKey, entry); err != nil {
			return dropped, err
		}
	}

	return dropped, nil
}
