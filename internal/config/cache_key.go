package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthRateLimitKey returns the counter key for a client IP within a fixed window.
func (r *CacheKeyStruct) AuthRateLimitKey(ip string, window int64) string {
	return fmt.Sprintf("ratelimit:auth:%s:%d", ip, window)
}

// PaymentIntentKey returns the cache key holding a pending payment intent.
func (r *CacheKeyStruct) PaymentIntentKey(intentID string) string {
	return fmt.Sprintf("payment:intent:%s", intentID)
}

// StudentStatusChannel returns the Redis PubSub channel for a student's application status.
func (r *CacheKeyStruct) StudentStatusChannel(userID string) string {
	return fmt.Sprintf("student:%s:status", userID)
}

var CacheKey = NewCacheKeyStruct()
