package services

import (
	"context"
	"sync"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"go.uber.org/zap"
)

type NotificationJob struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Data    map[string]string
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// NotificationDispatcher persists notifications on a fixed pool of workers
// fed by a buffered queue. Delivery is best-effort: a full queue drops the
// job instead of blocking the caller.
type NotificationDispatcher struct {
	store  NotificationStore
	clock  Clock
	logger *zap.Logger

	jobs chan NotificationJob
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewNotificationDispatcher(store NotificationStore, clock Clock, logger *zap.Logger, workers, queue int) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	d := &NotificationDispatcher{
		store:  store,
		clock:  clock,
		logger: logger,
		jobs:   make(chan NotificationJob, queue),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

// Notify enqueues a job without blocking. It reports whether the job was
// accepted. A nil dispatcher accepts nothing.
func (d *NotificationDispatcher) Notify(job NotificationJob) bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		utils.NotificationCount.WithLabelValues(job.Type, "dropped").Inc()
		return false
	}
	select {
	case d.jobs <- job:
		return true
	default:
		utils.NotificationCount.WithLabelValues(job.Type, "dropped").Inc()
		d.logger.Warn("notification_dropped",
			zap.String("user_id", job.UserID),
			zap.String("type", job.Type),
		)
		return false
	}
}

// Close stops accepting jobs, drains the queue and waits for the workers.
func (d *NotificationDispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) worker(id int) {
	defer d.wg.Done()

	for job := range d.jobs {
		n := &models.Notification{
			ID:        newID(),
			UserID:    job.UserID,
			Type:      job.Type,
			Title:     job.Title,
			Message:   job.Message,
			Data:      job.Data,
			CreatedAt: d.clock.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := d.store.CreateNotification(ctx, n)
		cancel()

		if err != nil {
			utils.NotificationCount.WithLabelValues(job.Type, "failed").Inc()
			d.logger.Error("notification_failed",
				zap.Int("worker_id", id),
				zap.String("user_id", job.UserID),
				zap.String("type", job.Type),
				zap.Error(err),
			)
			continue
		}

		utils.NotificationCount.WithLabelValues(job.Type, "sent").Inc()
		d.logger.Info("notification_sent",
			zap.Int("worker_id", id),
			zap.String("user_id", job.UserID),
			zap.String("type", job.Type),
		)
	}
}
