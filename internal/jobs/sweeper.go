package jobs

import (
	"context"
	"time"

	"fleet/config"
	"fleet/infras/otel"
	"fleet/internal/availability"
	"fleet/shared/constant"
	"fleet/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper periodically expires stale reservations so vehicle statuses
// converge even when nobody is reading them.
type Sweeper struct {
	engine availability.Engine
	cfg    *config.Config
	otel   otel.Otel
	cron   *cron.Cron
}

func NewSweeper(engine availability.Engine, cfg *config.Config, otel otel.Otel) *Sweeper {
	return &Sweeper{
		engine: engine,
		cfg:    cfg,
		otel:   otel,
		cron:   cron.New(cron.WithLocation(timezone.GetLocation())),
	}
}

// Start registers the sweep job and starts the scheduler. It is a
// no-op when sweeping is disabled by config.
func (s *Sweeper) Start() error {
	if !s.cfg.Sweep.Enable {
		log.Info().Msg("reservation sweeper is disabled")

		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Sweep.CronSpec, s.run); err != nil {
		return err
	}

	s.cron.Start()

	log.Info().Str("cronSpec", s.cfg.Sweep.CronSpec).Msg("reservation sweeper started")

	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Info().Msg("reservation sweeper stopped")
}

func (s *Sweeper) run() {
	timeout := time.Duration(s.cfg.Sweep.BatchTimeout) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctx, scope := s.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".SweepJob")
	defer scope.End()

	swept, err := s.engine.SweepExpired(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("reservation sweep failed")

		return
	}

	if swept > 0 {
		log.Info().Int("swept", swept).Msg("expired reservations swept")
	}
}
