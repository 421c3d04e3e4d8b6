package service

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"discord-strada/internal/model"
	"discord-strada/internal/repository"
)

// ActivityWorker accumulates activities and flushes them to the store
// in batches.
type ActivityWorker interface {
	Enqueue(activity model.Activity)
	Shutdown()
}

type batchActivityWorker struct {
	repo          repository.ActivityRepository
	queue         chan model.Activity
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewBatchActivityWorker starts the flush loop. Enqueue blocks when the
// buffer is full, which backpressures the webhook endpoint instead of
// dropping rows.
func NewBatchActivityWorker(repo repository.ActivityRepository, bufferSize, batchSize int, interval time.Duration) ActivityWorker {
	worker := &batchActivityWorker{
		repo:          repo,
		queue:         make(chan model.Activity, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

func (w *batchActivityWorker) Enqueue(activity model.Activity) {
	w.queue <- activity
}

// Shutdown closes the queue and waits for the loop to drain it.
func (w *batchActivityWorker) Shutdown() {
	log.Info("activity worker shutting down, draining queue")
	close(w.queue)
	w.wg.Wait()
	log.Info("activity worker stopped")
}

func (w *batchActivityWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.Activity
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case activity, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}
			batch = append(batch, activity)
			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchActivityWorker) bulkInsert(activities []model.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, activities); err != nil {
		log.Error("bulk insert failed", "count", len(activities), "error", err)
		return
	}
	log.Info("activities flushed", "count", len(activities))
}
