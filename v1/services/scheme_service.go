package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// SchemeService handles government scheme operations
type SchemeService struct {
	db *gorm.DB
}

// NewSchemeService creates a new scheme service
func NewSchemeService(db *gorm.DB) *SchemeService {
	return &SchemeService{db: db}
}

// ListActive retrieves every scheme currently open for applications,
// newest first.
func (s *SchemeService) ListActive(ctx context.Context) ([]models.SchemeResponse, error) {
	var schemes []models.GovernmentScheme

	start := time.Now()
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&schemes).Error
	monitoring.RecordDBCall(ctx, "government_schemes", "list_active", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list active schemes", err)
	}

	responses := make([]models.SchemeResponse, 0, len(schemes))
	for _, scheme := range schemes {
		responses = append(responses, toSchemeResponse(scheme))
	}
	return responses, nil
}

// GetScheme retrieves a single scheme by ID
func (s *SchemeService) GetScheme(ctx context.Context, schemeID string) (*models.SchemeResponse, error) {
	var scheme models.GovernmentScheme
	err := s.db.WithContext(ctx).First(&scheme, "scheme_id = ?", schemeID).Error
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "scheme", "get scheme")
	}

	response := toSchemeResponse(scheme)
	return &response, nil
}

// CreateScheme creates a new government scheme
func (s *SchemeService) CreateScheme(ctx context.Context, req *models.CreateSchemeRequest) (*models.SchemeResponse, error) {
	if req.Title == "" {
		return nil, apierrors.ValidationError("MISSING_TITLE", "Scheme title is required")
	}
	if req.Description == "" || req.EligibilityCriteria == "" || req.Benefits == "" {
		return nil, apierrors.ValidationError("MISSING_FIELDS", "Description, eligibility criteria and benefits are required")
	}

	scheme := models.GovernmentScheme{
		SchemeID:            "schm_" + uuid.New().String(),
		Title:               req.Title,
		Description:         req.Description,
		EligibilityCriteria: req.EligibilityCriteria,
		Benefits:            req.Benefits,
		State:               req.State,
		District:            req.District,
		IsActive:            true,
	}

	if req.ApplicationDeadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.ApplicationDeadline)
		if err != nil {
			return nil, apierrors.ValidationError("INVALID_DEADLINE", "Application deadline must be RFC3339")
		}
		scheme.ApplicationDeadline = &deadline
	}

	if err := s.db.WithContext(ctx).Create(&scheme).Error; err != nil {
		return nil, apierrors.DatabaseError("create scheme", err)
	}

	response := toSchemeResponse(scheme)
	return &response, nil
}

// DeactivateScheme closes a scheme for new applications
func (s *SchemeService) DeactivateScheme(ctx context.Context, schemeID string) (*models.SchemeResponse, error) {
	var scheme models.GovernmentScheme
	err := s.db.WithContext(ctx).First(&scheme, "scheme_id = ?", schemeID).Error
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "scheme", "get scheme")
	}

	scheme.IsActive = false
	if err := s.db.WithContext(ctx).Save(&scheme).Error; err != nil {
		return nil, apierrors.DatabaseError("deactivate scheme", err)
	}

	response := toSchemeResponse(scheme)
	return &response, nil
}

func toSchemeResponse(scheme models.GovernmentScheme) models.SchemeResponse {
	resp := models.SchemeResponse{
		SchemeID:            scheme.SchemeID,
		Title:               scheme.Title,
		Description:         scheme.Description,
		EligibilityCriteria: scheme.EligibilityCriteria,
		Benefits:            scheme.Benefits,
		State:               scheme.State,
		District:            scheme.District,
		IsActive:            scheme.IsActive,
		CreatedAt:           scheme.CreatedAt.Format(time.RFC3339),
	}
	if scheme.ApplicationDeadline != nil {
		deadline := scheme.ApplicationDeadline.Format(time.RFC3339)
		resp.ApplicationDeadline = &deadline
	}
	return resp
}
