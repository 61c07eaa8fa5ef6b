package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserPlayLock = errors.New("another play is in progress")

const (
	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_PRODUCTION  = "production"

	CACHE_TTL_1_MIN  = 1 * time.Minute
	CACHE_TTL_5_MINS = 5 * time.Minute

	TOKEN_TTL = 24 * time.Hour

	DEFAULT_LIST_LIMIT = 50
	MAX_LIST_LIMIT     = 100

	PLAY_RATE_LIMIT_PER_MINUTE  = 30
	LOGIN_RATE_LIMIT_PER_MINUTE = 10

	DEFAULT_ADJUSTMENT_DESCRIPTION = "Admin manual adjustment"
)

func LockKeyUserPlay(userID string) string {
	return fmt.Sprintf("lock:user-play:%s", userID)
}

func DBKeyRewards() string {
	return "rewards:all"
}

func DBKeyConfigs() string {
	return "config:all"
}

func LimitKeyUserPlay(userID string) string {
	return fmt.Sprintf("limit:user-play:%s", userID)
}

func LimitKeyLogin(ip string) string {
	return fmt.Sprintf("limit:login:%s", ip)
}

// clampLimit turns an unset limit into the default and keeps the rest within [1, MAX_LIST_LIMIT].
func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DEFAULT_LIST_LIMIT
	case limit < 1:
		return 1
	case limit > MAX_LIST_LIMIT:
		return MAX_LIST_LIMIT
	default:
		return limit
	}
}
