// Package metrics 定义 Prometheus 指标，经 /metrics 端点暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TreesPlantedTotal 累计种树数量。
	TreesPlantedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "greencampus_trees_planted_total",
		Help: "Total number of trees planted through the API.",
	})

	// WateringRemindersSentTotal 累计发送的浇水提醒邮件数。
	WateringRemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "greencampus_watering_reminders_sent_total",
		Help: "Total number of watering reminder emails sent.",
	})

	// SweepRunsTotal 累计完成的浇水巡检次数。
	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "greencampus_watering_sweep_runs_total",
		Help: "Total number of completed watering sweeps.",
	})

	// HTTPRequestDuration 按方法/路径/状态统计请求耗时。
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "greencampus_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
