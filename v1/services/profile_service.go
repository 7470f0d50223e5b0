package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// ProfileService handles profile lookups and provisioning
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new profile service
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// ListWeavers retrieves all active weaver profiles, newest first
func (s *ProfileService) ListWeavers(ctx context.Context) ([]models.ProfileResponse, error) {
	var profiles []models.Profile

	start := time.Now()
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleWeaver, true).
		Order("created_at DESC").
		Find(&profiles).Error
	monitoring.RecordDBCall(ctx, "profiles", "list_weavers", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list weavers", err)
	}

	responses := make([]models.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, toProfileResponse(profile))
	}
	return responses, nil
}

// GetProfile retrieves a profile by ID
func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*models.ProfileResponse, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "profile_id = ?", profileID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "profile", "get profile")
	}

	response := toProfileResponse(profile)
	return &response, nil
}

// EnsureProfile provisions a profile row for an authenticated user on
// first contact, keyed by the token subject. Existing rows are left
// untouched so locally edited fields survive repeat logins.
func (s *ProfileService) EnsureProfile(ctx context.Context, user *models.AuthenticatedUser) (*models.Profile, error) {
	role := user.GetPrimaryRole()
	if role == "" {
		return nil, apierrors.ForbiddenError("User has no assigned role")
	}

	profile := models.Profile{
		ProfileID: user.UserID,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      role,
		IsActive:  true,
	}

	start := time.Now()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}},
			DoNothing: true,
		}).
		Create(&profile).Error
	monitoring.RecordDBCall(ctx, "profiles", "ensure", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("ensure profile", err)
	}

	if err := s.db.WithContext(ctx).First(&profile, "profile_id = ?", user.UserID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "profile", "get provisioned profile")
	}
	return &profile, nil
}

// CreateWeaverProfile mirrors an onboarded weaver locally. The profile
// is keyed by the identity provider's account ID so later logins resolve
// to the same row.
func (s *ProfileService) CreateWeaverProfile(ctx context.Context, profileID string, req *models.CreateWeaverRequest) (*models.ProfileResponse, error) {
	if req.Email == "" {
		return nil, apierrors.ValidationError("MISSING_EMAIL", "Email is required")
	}
	if len(req.Email) > models.MaxEmailLength {
		return nil, apierrors.ValidationError("EMAIL_TOO_LONG", "Email exceeds maximum length")
	}
	if req.FirstName == "" && req.LastName == "" {
		return nil, apierrors.ValidationError("MISSING_NAME", "Weaver name is required")
	}

	profile := models.Profile{
		ProfileID:   profileID,
		FullName:    strings.TrimSpace(req.FirstName + " " + req.LastName),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleWeaver,
		State:       req.State,
		District:    req.District,
		SocietyName: req.SocietyName,
		IsActive:    true,
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Create(&profile).Error
	monitoring.RecordDBCall(ctx, "profiles", "create_weaver", time.Since(start), err)
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "weaver profile", "create weaver profile")
	}

	response := toProfileResponse(profile)
	return &response, nil
}

func toProfileResponse(profile models.Profile) models.ProfileResponse {
	return models.ProfileResponse{
		ProfileID:   profile.ProfileID,
		FullName:    profile.FullName,
		Email:       profile.Email,
		Role:        profile.Role,
		State:       profile.State,
		District:    profile.District,
		SocietyName: profile.SocietyName,
		IsActive:    profile.IsActive,
		CreatedAt:   profile.CreatedAt.Format(time.RFC3339),
	}
}
