package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// MetricService handles weaver performance metric operations
type MetricService struct {
	db *gorm.DB
}

// NewMetricService creates a new metric service
func NewMetricService(db *gorm.DB) *MetricService {
	return &MetricService{db: db}
}

// LatestForWeaver retrieves the most recent monthly metric row for a
// weaver. A weaver with no recorded months gets a nil response, not an
// error.
func (s *MetricService) LatestForWeaver(ctx context.Context, weaverID string) (*models.MetricResponse, error) {
	var metric models.WeaverMetric

	start := time.Now()
	err := s.db.WithContext(ctx).
		Where("weaver_id = ?", weaverID).
		Order("year DESC, month DESC").
		First(&metric).Error
	monitoring.RecordDBCall(ctx, "weaver_metrics", "latest", time.Since(start), err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierrors.DatabaseError("get latest metrics", err)
	}

	response := toMetricResponse(metric)
	return &response, nil
}

// RecordFulfillment folds a completed order into the weaver's metric row
// for the current month, creating the row on first fulfillment.
func (s *MetricService) RecordFulfillment(ctx context.Context, weaverID string, amount float64) error {
	now := time.Now()

	var metric models.WeaverMetric
	err := s.db.WithContext(ctx).
		Where("weaver_id = ? AND year = ? AND month = ?", weaverID, now.Year(), int(now.Month())).
		First(&metric).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metric = models.WeaverMetric{
			MetricID: "mtrc_" + uuid.New().String(),
			WeaverID: weaverID,
			Year:     now.Year(),
			Month:    int(now.Month()),
		}
	} else if err != nil {
		return apierrors.DatabaseError("get current metrics", err)
	}

	metric.TotalEarnings += amount
	metric.OrdersFulfilled++
	metric.SareesCompleted++

	start := time.Now()
	err = s.db.WithContext(ctx).Save(&metric).Error
	monitoring.RecordDBCall(ctx, "weaver_metrics", "upsert", time.Since(start), err)
	if err != nil {
		return apierrors.DatabaseError("record fulfillment", err)
	}
	return nil
}

func toMetricResponse(metric models.WeaverMetric) models.MetricResponse {
	return models.MetricResponse{
		WeaverID:        metric.WeaverID,
		Year:            metric.Year,
		Month:           metric.Month,
		TotalEarnings:   metric.TotalEarnings,
		OrdersFulfilled: metric.OrdersFulfilled,
		SareesCompleted: metric.SareesCompleted,
	}
}
