package utils

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	AnalysisCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_plant_analyses_total",
			Help: "Plant analyses stored, by urgency",
		},
		[]string{"urgency"},
	)

	QuizAttemptCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_quiz_attempts_total",
			Help: "Quiz attempts submitted",
		},
		[]string{"level", "perfect"},
	)

	AchievementCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_achievements_total",
			Help: "Flower titles awarded",
		},
		[]string{"level"},
	)

	NotificationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_notifications_total",
			Help: "Notifications handled by the dispatcher",
		},
		[]string{"type", "status"},
	)
)

var registerOnce sync.Once

func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ReqCount, ReqDuration, ErrorCount,
			AnalysisCount, QuizAttemptCount, AchievementCount, NotificationCount,
		)
	})
}
