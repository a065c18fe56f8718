package rate

import (
	"context"
	"time"

	"go.uber.org/ratelimit"
)

// Pacer delivers at most n ticks per period on C.
// A tick nobody is waiting for is dropped, so a slow consumer never receives a burst.
// C is closed once ctx is done, Done is closed right after.
type Pacer struct {
	c    chan struct{}
	done chan struct{}
	n    int
	per  time.Duration
}

// NewPacer starts a pacer. Non-positive arguments mean one tick per second.
func NewPacer(ctx context.Context, n int, per time.Duration) *Pacer {
	p := &Pacer{c: make(chan struct{}, 1), done: make(chan struct{}), n: max(n, 1), per: per}
	if p.per <= 0 {
		p.per = time.Second
	}
	limiter := ratelimit.New(p.n, ratelimit.Per(p.per), ratelimit.WithoutSlack, ratelimit.WithClock(ctxClock{ctx}))
	go p.run(ctx, limiter)
	return p
}

func (p *Pacer) C() <-chan struct{} { return p.c }

// Done is closed once the pacer goroutine has exited.
func (p *Pacer) Done() <-chan struct{} { return p.done }

func (p *Pacer) Rate() (n int, per time.Duration) { return p.n, p.per }

func (p *Pacer) run(ctx context.Context, limiter ratelimit.Limiter) {
	defer close(p.done)
	defer close(p.c)
	for {
		limiter.Take()
		if ctx.Err() != nil {
			return
		}
		select {
		case p.c <- struct{}{}:
		default:
		}
	}
}

// ctxClock is the wall clock whose Sleep is cut short by ctx.
type ctxClock struct {
	ctx context.Context
}

func (ctxClock) Now() time.Time { return time.Now() }

func (c ctxClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
	case <-t.C:
	}
}
