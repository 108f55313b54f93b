package store

import (
	"context"

	"github.com/asospay/rewards_platform/internal/models"
	"gorm.io/gorm"
)

type Tasks struct {
	db *gorm.DB
}

func NewTasks(db *gorm.DB) *Tasks {
	return &Tasks{db: db}
}

func (t *Tasks) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := conn(ctx, t.db).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (t *Tasks) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := conn(ctx, t.db).Model(&models.Profile{}).Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (t *Tasks) InsertTasks(ctx context.Context, tasks []models.UserTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return conn(ctx, t.db).Create(&tasks).Error
}

func (t *Tasks) ListByUser(ctx context.Context, userID string, limit int) ([]models.UserTask, error) {
	var tasks []models.UserTask
	q := conn(ctx, t.db).Where("user_id = ?", userID).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *Tasks) DeleteByUser(ctx context.Context, userID string) error {
	return conn(ctx, t.db).Where("user_id = ?", userID).Delete(&models.UserTask{}).Error
}
