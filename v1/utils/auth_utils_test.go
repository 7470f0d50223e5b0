package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hariram-suresh/loom-harmony/v1/models"
)

func TestExtractBearerToken(t *testing.T) {
	t.Run("ValidHeader", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/sarees", nil)
		r.Header.Set("Authorization", "Bearer abc.def.ghi")

		token, err := ExtractBearerToken(r)

		assert.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/sarees", nil)

		_, err := ExtractBearerToken(r)

		assert.Error(t, err)
	})

	t.Run("WrongScheme", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/sarees", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, err := ExtractBearerToken(r)

		assert.Error(t, err)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/sarees", nil)
		r.Header.Set("Authorization", "Bearer   ")

		_, err := ExtractBearerToken(r)

		assert.Error(t, err)
	})
}

func TestAuthenticatedUserContext(t *testing.T) {
	user := &models.AuthenticatedUser{
		UserID: "idp_sub_1",
		Roles:  []models.Role{models.RoleBuyer},
	}

	t.Run("RoundTrip", func(t *testing.T) {
		ctx := SetAuthenticatedUser(context.Background(), user)

		got, err := GetAuthenticatedUser(ctx)

		assert.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("MissingUser", func(t *testing.T) {
		_, err := GetAuthenticatedUser(context.Background())

		assert.Error(t, err)
	})
}

func TestRequireRole(t *testing.T) {
	user := &models.AuthenticatedUser{
		UserID: "staff_1",
		Roles:  []models.Role{models.RoleDistrictHead},
	}

	t.Run("HasRole", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/applications", nil)
		r = r.WithContext(SetAuthenticatedUser(r.Context(), user))

		got, err := RequireRole(r, models.RoleDistrictHead)

		assert.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("MissingRole", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/applications", nil)
		r = r.WithContext(SetAuthenticatedUser(r.Context(), user))

		_, err := RequireRole(r, models.RoleWeaver)

		assert.Error(t, err)
	})

	t.Run("AnyRole", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/applications", nil)
		r = r.WithContext(SetAuthenticatedUser(r.Context(), user))

		_, err := RequireAnyRole(r, models.ReviewerRoles...)
		assert.NoError(t, err)

		_, err = RequireAnyRole(r, models.RoleWeaver, models.RoleBuyer)
		assert.Error(t, err)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/applications", nil)

		_, err := RequireRole(r, models.RoleDistrictHead)

		assert.Error(t, err)
	})
}

func TestFindEndpointPermission(t *testing.T) {
	t.Run("ExactPath", func(t *testing.T) {
		ep, found := FindEndpointPermission("POST", "/api/v1/orders")

		assert.True(t, found)
		assert.Equal(t, models.PermissionPlaceOrder, ep.Permission)
	})

	t.Run("WildcardSegment", func(t *testing.T) {
		ep, found := FindEndpointPermission("PUT", "/api/v1/orders/order_123/status")

		assert.True(t, found)
		assert.Equal(t, models.PermissionUpdateOrderStatus, ep.Permission)
	})

	t.Run("WildcardMatchesExactlyOneSegment", func(t *testing.T) {
		_, found := FindEndpointPermission("GET", "/api/v1/sarees/a/b")

		assert.False(t, found)
	})

	t.Run("MethodMatters", func(t *testing.T) {
		_, found := FindEndpointPermission("PATCH", "/api/v1/orders")

		assert.False(t, found)
	})

	t.Run("ReviewEndpoint", func(t *testing.T) {
		ep, found := FindEndpointPermission("POST", "/api/v1/applications/app_1/review")

		assert.True(t, found)
		assert.Equal(t, models.PermissionReviewApplication, ep.Permission)
	})

	t.Run("UnknownPath", func(t *testing.T) {
		_, found := FindEndpointPermission("GET", "/api/v1/unknown")

		assert.False(t, found)
	})
}
