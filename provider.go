package portfolio

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/suitsy/portfolio/date"
)

// Source provides market data. Implementations return partial results
// rather than failing when only some symbols are unknown.
type Source interface {
	// FetchHistory returns daily prices of symbols since start, keyed by symbol.
	FetchHistory(ctx context.Context, symbols []string, start date.Date) (Series, error)
	// FetchLiveQuotes returns the current price of symbols. Missing entries are allowed.
	FetchLiveQuotes(ctx context.Context, symbols []string) (map[string]float64, error)
	// FetchFXHistory returns daily currency to home rates since start, keyed
	// by the provider pair name.
	FetchFXHistory(ctx context.Context, currencies []string, home string, start date.Date) (Series, error)
	// FetchLiveFX returns the current currency to home rates keyed by currency.
	FetchLiveFX(ctx context.Context, currencies []string, home string) (map[string]float64, error)
}

// Outcome is the result of a fetch: either a value, or the reason there is none.
type Outcome[T any] struct {
	Value  T
	Reason error
}

// OK reports whether the fetch succeeded.
func (o Outcome[T]) OK() bool { return o.Reason == nil }

// Retry bounds the attempts of a fetch.
type Retry struct {
	Attempts int           // total number of attempts, 3 when 0
	Wait     time.Duration // first wait between attempts, doubled after each failure. 500ms when 0
}

// DefaultRetry is 3 attempts, waiting 500ms then 1s.
var DefaultRetry = Retry{Attempts: 3, Wait: 500 * time.Millisecond}

func (r Retry) policy(ctx context.Context) backoff.BackOff {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultRetry.Attempts
	}
	wait := r.Wait
	if wait <= 0 {
		wait = DefaultRetry.Wait
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = wait
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Fetch calls op until it succeeds, r is exhausted, ctx is done, or op
// returns an error wrapped by backoff.Permanent.
//
// Failures never escape as errors: the last one becomes the Outcome reason.
func Fetch[T any](ctx context.Context, log zerolog.Logger, r Retry, what string, op func(context.Context) (T, error)) Outcome[T] {
	attempt := 0
	v, err := backoff.RetryNotifyWithData(
		func() (T, error) {
			attempt++
			return op(ctx)
		},
		r.policy(ctx),
		func(err error, wait time.Duration) {
			log.Warn().Err(err).Str("fetch", what).Int("attempt", attempt).Dur("wait", wait).Msg("fetch failed, retrying")
		},
	)
	if err != nil {
		log.Error().Err(err).Str("fetch", what).Int("attempts", attempt).Msg("fetch failed")
		var zero T
		return Outcome[T]{Value: zero, Reason: err}
	}
	return Outcome[T]{Value: v}
}
