package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/asospay/rewards_platform/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DailyTaskCount is how many products make up a day's task list.
const DailyTaskCount = 10

const rotationSchedule = "0 0 * * *"

type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	InsertTasks(ctx context.Context, tasks []models.UserTask) error
}

// Rotator keeps the process-wide snapshot of today's tasks and rotates it at
// midnight. The snapshot is read by every request handler concurrently, so
// reads take the lock briefly and return a copy.
type Rotator struct {
	store Store
	log   *zap.Logger
	cron  *cron.Cron

	mu          sync.RWMutex
	snapshot    []models.Product
	refreshedAt time.Time
}

func NewRotator(store Store, log *zap.Logger) *Rotator {
	return &Rotator{store: store, log: log, cron: cron.New()}
}

// Snapshot returns a copy of the current day's products and when they were
// loaded. Empty until the first Refresh.
func (r *Rotator) Snapshot() ([]models.Product, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, len(r.snapshot))
	copy(out, r.snapshot)
	return out, r.refreshedAt
}

// Refresh loads all products, picks the day's ten at random, swaps the
// snapshot, then fans the new tasks out to every profile. Fan-out failures
// for one user do not stop the rest.
func (r *Rotator) Refresh(ctx context.Context) error {
	products, err := r.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	picked := make([]models.Product, len(products))
	copy(picked, products)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > DailyTaskCount {
		picked = picked[:DailyTaskCount]
	}

	r.mu.Lock()
	r.snapshot = picked
	r.refreshedAt = time.Now()
	r.mu.Unlock()

	r.log.Info("daily tasks loaded", zap.Int("count", len(picked)))

	userIDs, err := r.store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, userID := range userIDs {
		rows := make([]models.UserTask, 0, len(picked))
		for _, p := range picked {
			rows = append(rows, models.UserTask{
				UserID:       userID,
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductPrice: p.Price,
				ProductImage: p.Image,
			})
		}
		if err := r.store.InsertTasks(ctx, rows); err != nil {
			r.log.Error("failed to assign tasks", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// Start schedules the midnight rotation.
func (r *Rotator) Start() {
	r.cron.AddFunc(rotationSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := r.Refresh(ctx); err != nil {
			r.log.Error("daily task rotation failed", zap.Error(err))
		}
	})
	r.cron.Start()
}

func (r *Rotator) Stop() {
	r.cron.Stop()
}
