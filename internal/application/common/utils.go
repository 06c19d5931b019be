package common

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Version подставляется при сборке: -ldflags "-X eventplanner/internal/application/common.Version=..."
var Version = "0.1.0"

func PgInterval(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%d seconds", sec)
}

// NextBackoffWithJitter экспоненциальная задержка 1s<<attempts (не больше 30 минут)
// с джиттером в диапазоне [base/2, base).
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

// TrimPtr обрезает пробелы у необязательного строкового поля, nil остаётся nil
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
