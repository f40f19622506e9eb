package services

import (
	"context"
	"errors"
	"os"
	"time"

	"gather/internal/apperr"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Password-reset tokens are the only state kept outside the database: opaque,
// write-once, read-once, with a TTL. Key = prefix + token, value = user id.
const (
	forgotPasswordPrefix = "forgot-password:"
	resetTokenTTL        = 24 * time.Hour
)

var redisClient *redis.Client

// InitRedis connects the token store. REDIS_URL falls back to a local
// instance for dev.
func InitRedis() {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid REDIS_URL")
	}
	redisClient = redis.NewClient(opt)
}

// CreateResetToken mints a token for the user and stores it with the TTL.
func CreateResetToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	err := redisClient.Set(ctx, forgotPasswordPrefix+token, userID, resetTokenTTL).Err()
	if err != nil {
		return "", pkgerrors.Wrap(err, "store reset token")
	}
	return token, nil
}

// LookupResetToken resolves a token to the user id it was minted for.
func LookupResetToken(ctx context.Context, token string) (string, error) {
	userID, err := redisClient.Get(ctx, forgotPasswordPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.New(apperr.NotFound, "token", "The token has been expired.")
	}
	if err != nil {
		return "", pkgerrors.Wrap(err, "lookup reset token")
	}
	return userID, nil
}

// DeleteResetToken consumes the token after a successful password change.
func DeleteResetToken(ctx context.Context, token string) error {
	return redisClient.Del(ctx, forgotPasswordPrefix+token).Err()
}
