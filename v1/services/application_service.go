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

// ApplicationService handles scheme application operations
type ApplicationService struct {
	db *gorm.DB
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// Submit creates a scheme application in the submitted state, timestamped
// at submission and owned by the weaver. The scheme must be active.
func (s *ApplicationService) Submit(ctx context.Context, weaverID, schemeID string, req *models.SubmitApplicationRequest) (*models.ApplicationResponse, error) {
	var scheme models.GovernmentScheme
	if err := s.db.WithContext(ctx).First(&scheme, "scheme_id = ?", schemeID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "scheme", "get scheme for application")
	}
	if !scheme.IsActive {
		return nil, apierrors.ConflictError("Scheme is no longer accepting applications")
	}
	if scheme.ApplicationDeadline != nil && time.Now().After(*scheme.ApplicationDeadline) {
		return nil, apierrors.ConflictError("Application deadline has passed")
	}

	now := time.Now()
	application := models.SchemeApplication{
		ApplicationID: "app_" + uuid.New().String(),
		WeaverID:      weaverID,
		SchemeID:      schemeID,
		Status:        models.SchemeStatusSubmitted,
		SubmittedAt:   &now,
	}
	if req != nil {
		application.ApplicationData = req.ApplicationData
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Create(&application).Error
	monitoring.RecordDBCall(ctx, "scheme_applications", "create", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("submit application", err)
	}

	application.Scheme = scheme
	response := toApplicationResponse(application)
	return &response, nil
}

// ReviewQueue retrieves all applications awaiting a decision, most
// recently submitted first. The scope predicate excludes terminal
// statuses, so reviewed items drop out of the queue on the next load.
func (s *ApplicationService) ReviewQueue(ctx context.Context) ([]models.ApplicationResponse, error) {
	var applications []models.SchemeApplication

	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Weaver").
		Preload("Scheme").
		Where("status IN ?", statusStrings(models.ReviewableSchemeStatuses)).
		Order("submitted_at DESC").
		Find(&applications).Error
	monitoring.RecordDBCall(ctx, "scheme_applications", "review_queue", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list review queue", err)
	}

	responses := make([]models.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, toApplicationResponse(application))
	}
	return responses, nil
}

// ListForWeaver retrieves a weaver's own applications, newest first
func (s *ApplicationService) ListForWeaver(ctx context.Context, weaverID string) ([]models.ApplicationResponse, error) {
	var applications []models.SchemeApplication
	err := s.db.WithContext(ctx).
		Preload("Scheme").
		Where("weaver_id = ?", weaverID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, apierrors.DatabaseError("list weaver applications", err)
	}

	responses := make([]models.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, toApplicationResponse(application))
	}
	return responses, nil
}

// Review records a reviewer's terminal decision on an application. The
// transition is validated against the application state machine; deciding
// an already-decided application is a conflict, not an overwrite.
func (s *ApplicationService) Review(ctx context.Context, reviewerID, applicationID string, req *models.ReviewApplicationRequest) (*models.ApplicationResponse, error) {
	if req.Decision != models.SchemeStatusApproved && req.Decision != models.SchemeStatusRejected {
		return nil, apierrors.ValidationError("INVALID_DECISION", "Decision must be approved or rejected")
	}
	if req.Notes != nil && len(*req.Notes) > models.MaxReviewNotesLength {
		return nil, apierrors.ValidationError("NOTES_TOO_LONG",
			fmt.Sprintf("Review notes must be at most %d characters", models.MaxReviewNotesLength))
	}

	var application models.SchemeApplication
	if err := s.db.WithContext(ctx).Preload("Weaver").Preload("Scheme").
		First(&application, "application_id = ?", applicationID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "application", "get application")
	}

	if !application.Status.CanTransitionTo(req.Decision) {
		return nil, apierrors.ConflictError(
			fmt.Sprintf("Cannot move application from %s to %s", application.Status, req.Decision))
	}

	now := time.Now()
	application.Status = req.Decision
	application.ReviewedBy = &reviewerID
	application.ReviewNotes = req.Notes
	application.ReviewedAt = &now

	start := time.Now()
	err := s.db.WithContext(ctx).Save(&application).Error
	monitoring.RecordDBCall(ctx, "scheme_applications", "review", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("review application", err)
	}

	response := toApplicationResponse(application)
	return &response, nil
}

func statusStrings(statuses []models.SchemeStatus) []string {
	out := make([]string, len(statuses))
	for i, status := range statuses {
		out[i] = string(status)
	}
	return out
}

func toApplicationResponse(application models.SchemeApplication) models.ApplicationResponse {
	resp := models.ApplicationResponse{
		ApplicationID: application.ApplicationID,
		WeaverID:      application.WeaverID,
		WeaverName:    application.Weaver.FullName,
		SchemeID:      application.SchemeID,
		SchemeTitle:   application.Scheme.Title,
		Status:        application.Status,
		ReviewedBy:    application.ReviewedBy,
		ReviewNotes:   application.ReviewNotes,
	}
	if application.SubmittedAt != nil {
		submitted := application.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &submitted
	}
	if application.ReviewedAt != nil {
		reviewed := application.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewed
	}
	return resp
}
