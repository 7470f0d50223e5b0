package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

func TestSchemeService_ListActive(t *testing.T) {
	db := RequireTestDB(t)
	service := NewSchemeService(db)
	createScheme(t, db, "schm_open", true, nil)
	createScheme(t, db, "schm_closed", false, nil)

	schemes, err := service.ListActive(context.Background())

	assert.NoError(t, err)
	assert.Len(t, schemes, 1)
	assert.Equal(t, "schm_open", schemes[0].SchemeID)
}

func TestSchemeService_CreateScheme(t *testing.T) {
	db := RequireTestDB(t)
	service := NewSchemeService(db)

	t.Run("Create_Success", func(t *testing.T) {
		deadline := time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339)
		scheme, err := service.CreateScheme(context.Background(), &models.CreateSchemeRequest{
			Title:               "Loom Modernization Grant",
			Description:         "Grants for upgrading looms",
			EligibilityCriteria: "Registered weaver with a working loom",
			Benefits:            "Up to 50000 towards loom upgrades",
			ApplicationDeadline: &deadline,
		})

		assert.NoError(t, err)
		assert.Contains(t, scheme.SchemeID, "schm_")
		assert.True(t, scheme.IsActive)
		assert.NotNil(t, scheme.ApplicationDeadline)
	})

	t.Run("Create_MissingTitle_Validation", func(t *testing.T) {
		_, err := service.CreateScheme(context.Background(), &models.CreateSchemeRequest{
			Description:         "d",
			EligibilityCriteria: "e",
			Benefits:            "b",
		})

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("Create_MissingRequiredFields_Validation", func(t *testing.T) {
		_, err := service.CreateScheme(context.Background(), &models.CreateSchemeRequest{
			Title: "Incomplete Scheme",
		})

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("Create_BadDeadlineFormat_Validation", func(t *testing.T) {
		deadline := "next friday"
		_, err := service.CreateScheme(context.Background(), &models.CreateSchemeRequest{
			Title:               "Bad Deadline Scheme",
			Description:         "d",
			EligibilityCriteria: "e",
			Benefits:            "b",
			ApplicationDeadline: &deadline,
		})

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, "INVALID_DEADLINE", apiErr.Code)
	})
}

func TestSchemeService_DeactivateScheme(t *testing.T) {
	db := RequireTestDB(t)
	service := NewSchemeService(db)
	createScheme(t, db, "schm_1", true, nil)

	t.Run("Deactivate_Success", func(t *testing.T) {
		scheme, err := service.DeactivateScheme(context.Background(), "schm_1")

		assert.NoError(t, err)
		assert.False(t, scheme.IsActive)

		schemes, err := service.ListActive(context.Background())
		assert.NoError(t, err)
		assert.Len(t, schemes, 0)
	})

	t.Run("Deactivate_NotFound", func(t *testing.T) {
		_, err := service.DeactivateScheme(context.Background(), "schm_missing")

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeNotFound, apiErr.Type)
	})
}
