package detection

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/fraudscope/server/internal/core/error"
	logx "github.com/fraudscope/server/pkg/logger"
)

// CachedClassifier is a read-through verdict cache over a Classifier. The
// upstream scoring service re-embeds content on every call, so repeated
// checks of identical content are worth short-circuiting. Cache failures are
// never surfaced; they degrade to a direct collaborator call.
type CachedClassifier struct {
	inner Classifier
	rdb   redis.Cmdable
	ttl   time.Duration
}

func NewCachedClassifier(inner Classifier, rdb redis.Cmdable, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedClassifier) CheckEmail(ctx context.Context, text string) (bool, error) {
	return c.check(ctx, "email", text, c.inner.CheckEmail)
}

func (c *CachedClassifier) CheckSMS(ctx context.Context, text string) (bool, error) {
	return c.check(ctx, "sms", text, c.inner.CheckSMS)
}

func (c *CachedClassifier) CheckURL(ctx context.Context, url string) (bool, error) {
	return c.check(ctx, "url", url, c.inner.CheckURL)
}

func (c *CachedClassifier) check(ctx context.Context, kind, text string, fn func(context.Context, string) (bool, error)) (bool, error) {
	key := verdictKey(kind, text)

	val, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		return val == "1", nil
	}
	if err != redis.Nil {
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("verdict cache read failed")
	}

	fraud, err := fn(ctx, text)
	if err != nil {
		return false, err
	}

	stored := "0"
	if fraud {
		stored = "1"
	}
	if err := c.rdb.Set(ctx, key, stored, c.ttl).Err(); err != nil {
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("verdict cache write failed")
	}
	return fraud, nil
}

func verdictKey(kind, text string) string {
	return fmt.Sprintf("fraud:verdict:%s:%x", kind, sha256.Sum256([]byte(text)))
}

var _ Classifier = (*CachedClassifier)(nil)
