package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const recipeTitleKeyFmt = "recipe:title:%d"

var client *redis.Client

// Init initializes the Redis connection. Every accessor degrades to a
// miss when the client is nil, so the server runs fine without Redis.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	key := hashCredentials(email, password)
	userID, err := client.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password string, userID int64) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Set(ctx, key, userID, 15*time.Minute)
}

// InvalidateAuth removes cached auth for a user (on password change/logout)
func InvalidateAuth(ctx context.Context, email, password string) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Del(ctx, key)
}

// GetCachedRecipeTitle returns a cached recipe title, if present.
// Plan reads resolve the same recipe ids over and over, so titles
// are cached for a short window.
func GetCachedRecipeTitle(ctx context.Context, recipeID int) (string, bool) {
	if client == nil {
		return "", false
	}
	title, err := client.Get(ctx, fmt.Sprintf(recipeTitleKeyFmt, recipeID)).Result()
	if err != nil {
		return "", false
	}
	return title, true
}

// CacheRecipeTitle caches a recipe title for 5 minutes
func CacheRecipeTitle(ctx context.Context, recipeID int, title string) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(recipeTitleKeyFmt, recipeID), title, 5*time.Minute)
}

// InvalidateRecipeTitle drops a cached title after a recipe edit or delete
func InvalidateRecipeTitle(ctx context.Context, recipeID int) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(recipeTitleKeyFmt, recipeID))
}
