// Package cron schedules the portfolio reminder scan.
package cron

import (
	"context"
	"fmt"

	"github.com/creditos/creditos-backend/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron     *cron.Cron
	reminder service.ReminderServices
	schedule string
	log      *zap.Logger
}

func NewScheduler(reminder service.ReminderServices, schedule string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		reminder: reminder,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the reminder job and launches the scheduler goroutine.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.log.Info("Running scheduled reminder scan", zap.String("schedule", s.schedule))
		if err := s.reminder.Run(context.Background()); err != nil {
			s.log.Error("Scheduled reminder scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register reminder job: %w", err)
	}

	s.cron.Start()
	s.log.Info("Reminder scheduler started", zap.String("schedule", s.schedule))

	return nil
}

// Stop halts scheduling and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Reminder scheduler stopped")
}
