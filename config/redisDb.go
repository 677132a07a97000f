package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
)
var ctx = context.Background()

func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisContext() context.Context {
	return ctx
}

func init() {
	godotenv.Load()
	redisAddress := os.Getenv("REDIS_ADDRESS")
	if redisAddress == "" {
		// Redis is optional: every helper below is a no-op without it.
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable at %s: %v; continuing without cache", redisAddress, err)
		rdb = nil
	}
}

func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func GetRedisValue(key string) (string, bool, error) {
	if rdb == nil {
		return "", false, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if err = rdb.Set(ctx, key, objInByte, exp).Err(); err != nil {
		return err
	}
	return nil
}

func SetRedisValue(key string, value string, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, exp).Err()
}

// store key in a set for faster adding & retrieving
func AddRedisSet(setKey string, member string) error {
	if rdb == nil {
		return nil
	}
	return rdb.SAdd(ctx, setKey, member).Err()
}

func GetRedisSetMembers(setKey string) ([]string, error) {
	if rdb == nil {
		return nil, nil
	}
	return rdb.SMembers(ctx, setKey).Result()
}

func RemoveRedisSetMember(setKey string, member string) error {
	if rdb == nil {
		return nil
	}
	return rdb.SRem(ctx, setKey, member).Err()
}

func RemoveRedisKey(keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

func ClearRedis(c context.Context) error {
	if rdb == nil {
		return nil
	}
	return rdb.FlushDB(c).Err()
}
