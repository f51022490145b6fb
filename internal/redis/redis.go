package redis

import (
	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client

// InitRedis connects the shared client used for voter session state.
func InitRedis(redisAddress string, redisUsername string, redisPassword string) *redis.Client {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
	return Rdb
}
