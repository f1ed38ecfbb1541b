package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

const serviceCacheTTL = 5 * time.Minute

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

func ServiceCacheKey(serviceID uint) string {
	return fmt.Sprintf("services:%d", serviceID)
}

// CachedService returns the cached catalog snapshot for a service, if warm.
// A cold cache or unreachable redis reads as a miss.
func CachedService(ctx context.Context, serviceID uint) (string, bool) {
	rdb := GetRedisClient()
	if rdb == nil {
		return "", false
	}
	val, err := rdb.Get(ctx, ServiceCacheKey(serviceID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// CacheService stores a catalog snapshot for the cache TTL. Failures are
// logged and swallowed; the catalog stays the source of truth.
func CacheService(ctx context.Context, serviceID uint, raw string) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.SetEx(ctx, ServiceCacheKey(serviceID), raw, serviceCacheTTL).Err(); err != nil {
		log.Printf("[redis] could not cache service %d: %s\n", serviceID, err.Error())
	}
}
