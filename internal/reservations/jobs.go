package reservations

import (
	"context"
	"time"

	"reservly/pkg/logger"
)

// SweepProcessor runs the deadline sweep on a fixed interval. Each pass is
// idempotent, so overlapping or restarted processes are safe.
type SweepProcessor struct {
	service  Service
	interval time.Duration
	done     chan struct{}
}

// NewSweepProcessor creates a sweep processor. A non-positive interval falls
// back to one minute.
func NewSweepProcessor(service Service, interval time.Duration) *SweepProcessor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepProcessor{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. The first pass runs immediately so a restart
// catches up on deadlines that elapsed while the process was down.
func (p *SweepProcessor) Start(ctx context.Context) {
	go p.run(ctx)
	logger.GetDefault().InfoWithContext(ctx, "reservation sweep started",
		map[string]interface{}{"interval": p.interval.String()})
}

// Stop signals the sweep loop to exit.
func (p *SweepProcessor) Stop() {
	close(p.done)
}

func (p *SweepProcessor) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			p.sweep(ctx)
		case <-p.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *SweepProcessor) sweep(ctx context.Context) {
	result, err := p.service.SweepExpired(ctx)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "reservation sweep failed", err, nil)
		return
	}
	if result.Expired > 0 || result.StaleQueued > 0 {
		logger.GetDefault().InfoWithContext(ctx, "reservation sweep pass",
			map[string]interface{}{
				"expired":      result.Expired,
				"promoted":     result.Promoted,
				"stale_queued": result.StaleQueued,
			})
	}
}
