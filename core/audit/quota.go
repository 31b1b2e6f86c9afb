package audit

import (
	"context"
	"math"
	"sync"
	"time"
)

// ExplorationQuota bounds how many dispatches go to new drivers. TryReserve
// consumes one slot when it returns true.
type ExplorationQuota interface {
	TryReserve(ctx context.Context, now time.Time) (bool, error)
}

// UnlimitedQuota never runs out.
type UnlimitedQuota struct{}

func (UnlimitedQuota) TryReserve(context.Context, time.Time) (bool, error) { return true, nil }

// Allowance is the number of exploration slots per day:
// floor(share * dailyVolume).
func Allowance(share float64, dailyVolume int) int {
	if share <= 0 || dailyVolume <= 0 {
		return 0
	}
	return int(math.Floor(share*float64(dailyVolume) + 1e-9))
}

// DailyQuota is an in-process quota that resets at the UTC day boundary.
type DailyQuota struct {
	mu    sync.Mutex
	limit int
	day   string
	used  int
}

// NewDailyQuota allows floor(share*dailyVolume) reservations per UTC day.
func NewDailyQuota(share float64, dailyVolume int) *DailyQuota {
	return &DailyQuota{limit: Allowance(share, dailyVolume)}
}

// TryReserve consumes one slot of the day containing now.
func (q *DailyQuota) TryReserve(_ context.Context, now time.Time) (bool, error) {
	day := DayKey(now)
	q.mu.Lock()
	defer q.mu.Unlock()
	if day != q.day {
		q.day = day
		q.used = 0
	}
	if q.used >= q.limit {
		return false, nil
	}
	q.used++
	return true, nil
}

// Remaining returns the unused slots of the day containing now.
func (q *DailyQuota) Remaining(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if DayKey(now) != q.day {
		return q.limit
	}
	return q.limit - q.used
}

// DayKey formats the UTC calendar day of t, e.g. "2026-01-31".
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
