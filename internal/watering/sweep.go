package watering

import (
	"context"
	"log/slog"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/pkg/metrics"
	"github.com/junaydArshad/Green-Campus/internal/store"
)

// CandidateSource 提供巡检所需的树木视图。
type CandidateSource interface {
	WateringCandidates() ([]store.WateringCandidate, error)
}

// ReminderSender 发送浇水提醒。
type ReminderSender interface {
	SendWateringReminder(toEmail, ownerName, speciesName string, lastWatered *time.Time, intervalDays int) error
}

// Sweeper 遍历全部树并为每棵到期的树给所有者发一封提醒邮件。
type Sweeper struct {
	source CandidateSource
	sender ReminderSender
	logger *slog.Logger
	now    func() time.Time
}

// NewSweeper 创建巡检器。
func NewSweeper(source CandidateSource, sender ReminderSender, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		source: source,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep 执行一次巡检，返回已发送的提醒数量。
//
// 邮件按棵顺序发送；中途失败立即中止并返回已发送数量与错误
// （这是运维便利功能，不保证送达）。
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	candidates, err := s.source.WateringCandidates()
	if err != nil {
		return 0, err
	}

	now := s.now()
	sent := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if !NeedsWatering(c.SpeciesName, c.LastWatered, now) {
			continue
		}
		interval := IntervalDays(c.SpeciesName)
		if err := s.sender.SendWateringReminder(c.OwnerEmail, c.OwnerFullName, c.SpeciesName, c.LastWatered, interval); err != nil {
			s.logger.Error("send watering reminder failed",
				slog.Uint64("tree_id", uint64(c.TreeID)),
				slog.String("to", c.OwnerEmail),
				slog.String("error", err.Error()))
			return sent, err
		}
		s.logger.Info("watering reminder sent",
			slog.Uint64("tree_id", uint64(c.TreeID)),
			slog.String("species", c.SpeciesName),
			slog.String("to", c.OwnerEmail))
		metrics.WateringRemindersSentTotal.Inc()
		sent++
	}
	metrics.SweepRunsTotal.Inc()
	return sent, nil
}
