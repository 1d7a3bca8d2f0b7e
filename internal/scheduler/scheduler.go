package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers a sweep on a cron schedule evaluated in UTC. It stands
// in for an external job runner; each tick is one independent Sweep.
type Scheduler struct {
	sweeper *Sweeper
	log     *zap.Logger
	cron    *cron.Cron
	spec    string
	now     func() time.Time
}

// New parses spec (standard 5-field cron) and prepares the scheduler.
func New(spec string, sweeper *Sweeper, log *zap.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		sweeper: sweeper,
		log:     log,
		spec:    spec,
		now:     time.Now,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}, nil
}

// Run starts the cron loop and blocks until ctx is canceled, then waits for
// a running sweep to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return err
	}
	s.log.Info("scheduler started", zap.String("schedule", s.spec))
	s.cron.Start()

	<-ctx.Done()
	s.log.Info("scheduler stopping")
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx, s.now()); err != nil {
		s.log.Error("sweep failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
