package http

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const inflightTTL = 2 * time.Minute

// SubmissionLimiter throttles bill submissions per employee.
// Limiters of idle employees expire from the registry.
type SubmissionLimiter struct {
	limiters *cache.Cache
	inflight *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewSubmissionLimiter allows one submission every interval per employee,
// bursting to burst.
func NewSubmissionLimiter(interval time.Duration, burst int, idleTTL time.Duration) *SubmissionLimiter {
	return &SubmissionLimiter{
		limiters: cache.New(idleTTL, 2*idleTTL),
		inflight: cache.New(inflightTTL, inflightTTL),
		limit:    rate.Every(interval),
		burst:    burst,
	}
}

// Begin claims a submission slot for email. It fails while the employee is
// throttled or already has a submission in flight.
// done must be called when the submission ends; only a successful
// submission uses up a token, so a rejected form can be sent again.
func (l *SubmissionLimiter) Begin(email string) (done func(succeeded bool), ok bool) {
	lim := l.limiter(email)
	if lim.Tokens() < 1 {
		return nil, false
	}
	if err := l.inflight.Add(email, struct{}{}, cache.DefaultExpiration); err != nil {
		return nil, false
	}

	return func(succeeded bool) {
		if succeeded {
			lim.Allow()
		}
		l.inflight.Delete(email)
	}, true
}

func (l *SubmissionLimiter) limiter(email string) *rate.Limiter {
	if v, found := l.limiters.Get(email); found {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.limiters.Add(email, lim, cache.DefaultExpiration); err != nil {
		// lost a race with a concurrent request of the same employee
		if v, found := l.limiters.Get(email); found {
			return v.(*rate.Limiter)
		}
	}
	return lim
}
