package background

import (
	"context"
	"log"
	"time"

	"billingpanel/internal/config"
	"billingpanel/internal/jobs"
	"billingpanel/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// SessionSweeper periodically re-enqueues checkout session syncs for orders
// whose session never resolved. Covers tasks lost to enqueue failures at
// order creation time.
type SessionSweeper struct {
	scheduler gocron.Scheduler
	orderRepo repositories.OrderRepository
	enqueuer  jobs.Enqueuer
	interval  time.Duration
	staleness time.Duration
	batchSize int
}

func NewSessionSweeper(orderRepo repositories.OrderRepository, enqueuer jobs.Enqueuer, cfg config.SweepConfig) (*SessionSweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &SessionSweeper{
		scheduler: scheduler,
		orderRepo: orderRepo,
		enqueuer:  enqueuer,
		interval:  time.Duration(cfg.IntervalMinutes) * time.Minute,
		staleness: time.Duration(cfg.StaleAfterMinutes) * time.Minute,
		batchSize: cfg.BatchSize,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionSweeper) Start() {
	log.Printf("INFO: starting checkout session sweeper (every %s)", s.interval)
	s.scheduler.Start()
}

func (s *SessionSweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.staleness)
	orders, err := s.orderRepo.ListPendingSessions(ctx, cutoff, s.batchSize)
	if err != nil {
		log.Printf("WARN: session sweep failed to list pending orders: %v", err)
		return
	}

	for _, order := range orders {
		if order.CheckoutSessionID == nil {
			continue
		}
		task, err := jobs.NewSessionSyncTask(jobs.SessionSyncPayload{
			OrderID:           order.ID,
			CheckoutSessionID: *order.CheckoutSessionID,
		})
		if err != nil {
			log.Printf("WARN: session sweep failed to build task for order %s: %v", order.ID, err)
			continue
		}
		if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
			log.Printf("WARN: session sweep failed to enqueue order %s: %v", order.ID, err)
		}
	}

	if len(orders) > 0 {
		log.Printf("INFO: session sweep re-enqueued %d pending checkout sessions", len(orders))
	}
}
