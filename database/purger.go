package database

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPurgeSchedule runs the purge every ten minutes.
const DefaultPurgeSchedule = "@every 10m"

// Purger periodically removes expired drafts and cached artworks.
type Purger struct {
	cron    *cron.Cron
	store   Store
	timeout time.Duration
	logger  zerolog.Logger
}

func NewPurger(store Store, schedule string) (*Purger, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	p := &Purger{
		cron:    cron.New(),
		store:   store,
		timeout: time.Minute,
		logger:  log.With().Str("job", "draftPurger").Str("store", store.Name()).Logger(),
	}
	if _, err := p.cron.AddFunc(schedule, p.purge); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Purger) Start() {
	p.logger.Info().Msg("draft purger started")
	p.cron.Start()
}

// Stop halts the schedule and waits for a running purge to finish.
func (p *Purger) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info().Msg("draft purger stopped")
}

func (p *Purger) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	removed, err := p.store.PurgeExpired(ctx, time.Now())
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to purge expired drafts")
		return
	}
	if removed > 0 {
		p.logger.Info().Int("removed", removed).Msg("purged expired drafts")
	}
}
