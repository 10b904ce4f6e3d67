package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper 执行一次浇水巡检并返回发送的提醒数量。
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler 周期性触发浇水提醒巡检。
//
// 巡检本身由 Sweeper 完成，这里只负责节奏控制：
// 启动时立即跑一轮，之后按 interval 定时重复，ctx 取消后退出。
type Scheduler struct {
	sweeper  Sweeper
	logger   *slog.Logger
	interval time.Duration
}

// NewScheduler 创建一个新的调度器实例。
//
// 参数:
//
//	sweeper: 浇水巡检执行器
//	logger: 日志记录器
//	interval: 巡检间隔（<= 0 表示禁用周期巡检）
//
// 返回值:
//
//	*Scheduler: 调度器实例
func NewScheduler(sweeper Sweeper, logger *slog.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
	}
}

// Run 启动巡检循环，阻塞直到 ctx 取消。
//
// 巡检失败只记日志，不会终止循环；下一个周期照常运行。
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("watering scheduler disabled")
		return
	}

	s.logger.Info("watering scheduler started",
		slog.String("interval", s.interval.String()))

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watering scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	sent, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("watering sweep failed",
			slog.String("error", err.Error()),
			slog.Int("sent", sent))
		return
	}
	if sent > 0 {
		s.logger.Info("watering sweep completed", slog.Int("sent", sent))
	}
}
