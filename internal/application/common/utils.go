package common

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

func PgInterval(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%d seconds", sec)
}

// NextBackoffWithJitter - экспоненциальная задержка с джиттером, потолок 30 минут
func NextBackoffWithJitter(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 20 {
		attempts = 20
	}

	base := time.Second << attempts

	limit := 30 * time.Minute
	if base > limit {
		base = limit
	}

	jitter := time.Duration(rand.Int63n(int64(base / 2)))

	return base/2 + jitter
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer func() {
		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
	}()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Truncate обрезает строку ошибки до limit рун, чтобы не раздувать last_error
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
