package revocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cron "github.com/robfig/cron/v3"
)

// Scheduler runs Prune on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(spec string, p Pruner, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := p.Prune(context.Background(), time.Now())
		if err != nil {
			log.Error("revocation_prune_failed", "error", err)
			return
		}
		log.Info("revocation_pruned", "removed", n)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule revocation prune %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running prune to finish or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
