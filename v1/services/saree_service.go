package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// SareeService handles saree listing operations
type SareeService struct {
	db *gorm.DB
}

// NewSareeService creates a new saree service
func NewSareeService(db *gorm.DB) *SareeService {
	return &SareeService{db: db}
}

// ListAvailable retrieves every listing currently for sale, newest first,
// with the weaver profile inlined. Unavailable listings never appear in
// the buyer-facing snapshot.
func (s *SareeService) ListAvailable(ctx context.Context) ([]models.SareeResponse, error) {
	var sarees []models.Saree

	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Weaver").
		Where("is_available = ?", true).
		Order("created_at DESC").
		Find(&sarees).Error
	monitoring.RecordDBCall(ctx, "sarees", "list_available", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list available sarees", err)
	}

	responses := make([]models.SareeResponse, 0, len(sarees))
	for _, saree := range sarees {
		responses = append(responses, toSareeResponse(saree))
	}
	return responses, nil
}

// ListByWeaver retrieves all listings owned by a weaver, newest first.
func (s *SareeService) ListByWeaver(ctx context.Context, weaverID string) ([]models.SareeResponse, error) {
	var sarees []models.Saree

	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Weaver").
		Where("weaver_id = ?", weaverID).
		Order("created_at DESC").
		Find(&sarees).Error
	monitoring.RecordDBCall(ctx, "sarees", "list_by_weaver", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list weaver sarees", err)
	}

	responses := make([]models.SareeResponse, 0, len(sarees))
	for _, saree := range sarees {
		responses = append(responses, toSareeResponse(saree))
	}
	return responses, nil
}

// GetSaree retrieves a single listing by ID
func (s *SareeService) GetSaree(ctx context.Context, sareeID string) (*models.SareeResponse, error) {
	var saree models.Saree
	err := s.db.WithContext(ctx).Preload("Weaver").First(&saree, "saree_id = ?", sareeID).Error
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "saree", "get saree")
	}

	response := toSareeResponse(saree)
	return &response, nil
}

// CreateSaree creates a new listing owned by the given weaver
func (s *SareeService) CreateSaree(ctx context.Context, weaverID string, req *models.CreateSareeRequest) (*models.SareeResponse, error) {
	if req.Title == "" {
		return nil, apierrors.ValidationError("MISSING_TITLE", "Saree title is required")
	}
	if len(req.Title) > models.MaxTitleLength {
		return nil, apierrors.ValidationError("TITLE_TOO_LONG", fmt.Sprintf("Title must be at most %d characters", models.MaxTitleLength))
	}
	if req.Price <= 0 {
		return nil, apierrors.ValidationError("INVALID_PRICE", "Price must be positive")
	}

	saree := models.Saree{
		SareeID:     "saree_" + uuid.New().String(),
		WeaverID:    weaverID,
		Title:       req.Title,
		Description: req.Description,
		Variety:     req.Variety,
		Material:    req.Material,
		Color:       req.Color,
		Design:      req.Design,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Images:      models.StringSlice(req.Images),
		IsAvailable: true,
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Create(&saree).Error
	monitoring.RecordDBCall(ctx, "sarees", "create", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("create saree", err)
	}

	response := toSareeResponse(saree)
	return &response, nil
}

// UpdateSaree updates fields of an existing listing owned by the weaver
func (s *SareeService) UpdateSaree(ctx context.Context, weaverID, sareeID string, req *models.UpdateSareeRequest) (*models.SareeResponse, error) {
	var saree models.Saree
	err := s.db.WithContext(ctx).First(&saree, "saree_id = ?", sareeID).Error
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "saree", "get saree")
	}

	if saree.WeaverID != weaverID {
		return nil, apierrors.ForbiddenError("Only the owning weaver can update this listing")
	}

	if req.Title != nil {
		saree.Title = *req.Title
	}
	if req.Description != nil {
		saree.Description = req.Description
	}
	if req.Color != nil {
		saree.Color = *req.Color
	}
	if req.Design != nil {
		saree.Design = *req.Design
	}
	if req.Price != nil {
		saree.Price = *req.Price
	}
	if req.IsAvailable != nil {
		saree.IsAvailable = *req.IsAvailable
	}

	if err := s.db.WithContext(ctx).Save(&saree).Error; err != nil {
		return nil, apierrors.DatabaseError("update saree", err)
	}

	response := toSareeResponse(saree)
	return &response, nil
}

// toSareeResponse maps the entity to its API shape. A missing weaver
// profile leaves the name fields empty rather than failing the record.
func toSareeResponse(saree models.Saree) models.SareeResponse {
	resp := models.SareeResponse{
		SareeID:     saree.SareeID,
		WeaverID:    saree.WeaverID,
		Title:       saree.Title,
		Description: saree.Description,
		Variety:     saree.Variety,
		Material:    saree.Material,
		Color:       saree.Color,
		Design:      saree.Design,
		Price:       saree.Price,
		Images:      []string(saree.Images),
		IsAvailable: saree.IsAvailable,
		CreatedAt:   saree.CreatedAt.Format(time.RFC3339),
	}
	resp.WeaverName = saree.Weaver.FullName
	if saree.Weaver.SocietyName != nil {
		resp.SocietyName = *saree.Weaver.SocietyName
	}
	return resp
}
