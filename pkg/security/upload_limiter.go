package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadQuota caps how many documents one form session may upload in a sliding
// window. Counters live in Redis; without Redis every upload is allowed.
type UploadQuota struct {
	limit  int
	window time.Duration
	client func() *goredis.Client
	now    func() time.Time
}

// Lua script for sliding window counting
// KEYS[1] = quota key
// ARGV[1] = max count allowed
// ARGV[2] = window size in milliseconds
// ARGV[3] = current timestamp in milliseconds
// ARGV[4] = unique member
// Returns: 1 if allowed, 0 if over quota
const uploadQuotaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
    return 0
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`

// NewUploadQuota allows limit uploads per window for each session
func NewUploadQuota(limit int, window time.Duration, client func() *goredis.Client) *UploadQuota {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Hour
	}
	return &UploadQuota{limit: limit, window: window, client: client, now: time.Now}
}

// Allow records one upload for sessionID. It returns the suggested retry delay
// when the quota is exhausted. Redis errors fail open and are returned for logging.
func (q *UploadQuota) Allow(ctx context.Context, sessionID string) (bool, time.Duration, error) {
	if q.client == nil {
		return true, 0, nil
	}
	client := q.client()
	if client == nil {
		return true, 0, nil
	}

	now := q.now()
	key := "quota:upload:session:" + sessionID
	member := fmt.Sprintf("%d-%d", now.UnixNano(), time.Now().UnixNano())

	res, err := client.Eval(ctx, uploadQuotaScript, []string{key},
		q.limit, q.window.Milliseconds(), now.UnixMilli(), member).Result()
	if err != nil {
		return true, 0, fmt.Errorf("upload quota check failed: %w", err)
	}
	allowed, ok := res.(int64)
	if !ok {
		return true, 0, fmt.Errorf("unexpected result type from upload quota script")
	}
	if allowed == 1 {
		return true, 0, nil
	}
	return false, q.window, nil
}
