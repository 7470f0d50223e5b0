package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hariram-suresh/loom-harmony/v1/models"
	authutils "github.com/hariram-suresh/loom-harmony/v1/utils"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(method, path string, roles ...models.Role) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	if len(roles) > 0 {
		user := &models.AuthenticatedUser{
			UserID: "user_1",
			Email:  "user@example.com",
			Roles:  roles,
		}
		r = r.WithContext(authutils.SetAuthenticatedUser(r.Context(), user))
	}
	return r
}

func TestAuthorizationMiddleware_AuthorizeRequest(t *testing.T) {
	mw := NewAuthorizationMiddleware()
	handler := mw.AuthorizeRequest(okHandler())

	t.Run("Unauthenticated_401", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("GET", "/api/v1/sarees"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("PermittedRole_Passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("GET", "/api/v1/sarees", models.RoleBuyer))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingPermission_403", func(t *testing.T) {
		// Buyers cannot create listings.
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("POST", "/api/v1/sarees", models.RoleBuyer))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ReviewEndpoint_ReviewerOnly", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("POST", "/api/v1/applications/app_1/review", models.RoleDistrictHead))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("POST", "/api/v1/applications/app_1/review", models.RoleSocietyAdmin))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("UndefinedEndpoint_FailClosed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("GET", "/api/v1/undocumented", models.RoleHandloomHead))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("HealthAndMetrics_SkipAuthorization", func(t *testing.T) {
		for _, path := range []string{"/health", "/metrics"} {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, requestAs("GET", path))

			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}

func TestAuthorizationMiddleware_FailOpenMode(t *testing.T) {
	mw := NewAuthorizationMiddlewareWithConfig(AuthorizationConfig{
		Mode: models.AuthorizationModeFailOpen,
	})
	handler := mw.AuthorizeRequest(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs("GET", "/api/v1/undocumented", models.RoleBuyer))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizationMiddleware_RequireRole(t *testing.T) {
	mw := NewAuthorizationMiddleware()
	handler := mw.RequireRole(models.ReviewerRoles...)(okHandler())

	t.Run("ReviewerPasses", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("POST", "/api/v1/applications/app_1/review", models.RoleHandloomHead))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NonReviewer_403", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("POST", "/api/v1/applications/app_1/review", models.RoleWeaver))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
