package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/hariram-suresh/loom-harmony/idp"
	"github.com/hariram-suresh/loom-harmony/v1/models"
	"github.com/hariram-suresh/loom-harmony/v1/services"
	"github.com/hariram-suresh/loom-harmony/v1/utils"
)

// MockIDP implements idp.IdentityProviderAPI with per-method overrides
type MockIDP struct {
	CreateUserFunc                  func(ctx context.Context, user *idp.User) (*idp.UserInfo, error)
	AddMemberToGroupByGroupNameFunc func(ctx context.Context, groupName string, member *idp.GroupMember) (*string, error)
}

func (m *MockIDP) CreateUser(ctx context.Context, user *idp.User) (*idp.UserInfo, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	return &idp.UserInfo{Id: "idp_generated", Email: user.Email}, nil
}

func (m *MockIDP) GetUser(ctx context.Context, userID string) (*idp.UserInfo, error) {
	return nil, errors.New("not implemented")
}

func (m *MockIDP) UpdateUser(ctx context.Context, userID string, user *idp.User) (*idp.UserInfo, error) {
	return nil, errors.New("not implemented")
}

func (m *MockIDP) DeleteUser(ctx context.Context, userID string) error {
	return errors.New("not implemented")
}

func (m *MockIDP) GetGroupByName(ctx context.Context, groupName string) (*string, error) {
	return nil, errors.New("not implemented")
}

func (m *MockIDP) AddMemberToGroupByGroupName(ctx context.Context, groupName string, member *idp.GroupMember) (*string, error) {
	if m.AddMemberToGroupByGroupNameFunc != nil {
		return m.AddMemberToGroupByGroupNameFunc(ctx, groupName, member)
	}
	groupID := "group_weaver"
	return &groupID, nil
}

func (m *MockIDP) RemoveMemberFromGroup(ctx context.Context, groupID string, userID string) error {
	return errors.New("not implemented")
}

func setupHandlerTest(t *testing.T) (*http.ServeMux, *gorm.DB) {
	db := services.RequireTestDB(t)
	handler := NewV1Handler(db)
	mux := http.NewServeMux()
	handler.SetupV1Routes(mux)
	return mux, db
}

func seedTestProfile(t *testing.T, db *gorm.DB, id string, role models.Role) {
	profile := models.Profile{
		ProfileID: id,
		FullName:  "Test User " + id,
		Email:     id + "@example.com",
		Role:      role,
		IsActive:  true,
	}
	assert.NoError(t, db.Create(&profile).Error)
}

func seedTestSaree(t *testing.T, db *gorm.DB, id, weaverID string, variety models.SareeVariety, color string) {
	saree := models.Saree{
		SareeID:     id,
		WeaverID:    weaverID,
		Title:       "Test Saree " + id,
		Variety:     variety,
		Material:    models.MaterialPureSilk,
		Color:       color,
		Design:      "Temple Border",
		Price:       5000,
		IsAvailable: true,
	}
	assert.NoError(t, db.Create(&saree).Error)
}

func doRequest(mux *http.ServeMux, method, path string, body interface{}, user *models.AuthenticatedUser) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, path, &buf)
	if user != nil {
		r = r.WithContext(utils.SetAuthenticatedUser(r.Context(), user))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func buyerUser(id string) *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		UserID:   id,
		Email:    id + "@example.com",
		FullName: "Test User " + id,
		Roles:    []models.Role{models.RoleBuyer},
	}
}

func weaverUser(id string) *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		UserID:   id,
		Email:    id + "@example.com",
		FullName: "Test User " + id,
		Roles:    []models.Role{models.RoleWeaver},
	}
}

func societyUser(id string, role models.Role) *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		UserID:   id,
		Email:    id + "@example.com",
		FullName: "Test User " + id,
		Roles:    []models.Role{role},
	}
}

func TestV1Handler_Sarees(t *testing.T) {
	mux, db := setupHandlerTest(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)
	seedTestSaree(t, db, "saree_1", "weav_1", models.VarietySilk, "Red")
	seedTestSaree(t, db, "saree_2", "weav_1", models.VarietyCotton, "Blue")

	t.Run("ListSarees", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/sarees", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Count)
	})

	t.Run("ListSarees_QueryFilter", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/sarees?variety=silk&color=red", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("GetSaree", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/sarees/saree_1", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var saree models.SareeResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &saree))
		assert.Equal(t, "saree_1", saree.SareeID)
	})

	t.Run("GetSaree_NotFound", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/sarees/saree_missing", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CreateSaree_AsWeaver", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/sarees", models.CreateSareeRequest{
			Title:    "New Listing",
			Variety:  models.VarietySilk,
			Material: models.MaterialPureSilk,
			Color:    "Green",
			Design:   "Plain",
			Price:    3200,
		}, weaverUser("weav_1"))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("CreateSaree_AsBuyer_Forbidden", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/sarees", models.CreateSareeRequest{
			Title: "Nope",
			Price: 100,
		}, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		w := doRequest(mux, "DELETE", "/api/v1/sarees", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestV1Handler_Orders(t *testing.T) {
	mux, db := setupHandlerTest(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)
	seedTestProfile(t, db, "buyer_1", models.RoleBuyer)
	seedTestSaree(t, db, "saree_1", "weav_1", models.VarietySilk, "Red")

	t.Run("PlaceOrder_AsBuyer", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/orders", models.PlaceOrderRequest{
			SareeID:     "saree_1",
			TotalAmount: 5000,
		}, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusCreated, w.Code)
		var order models.OrderResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, models.OrderStatusPending, order.Status)
	})

	t.Run("PlaceOrder_AsWeaver_Forbidden", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/orders", models.PlaceOrderRequest{
			SareeID:     "saree_1",
			TotalAmount: 5000,
		}, weaverUser("weav_1"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ListOrders_BuyerScope", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/orders", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("ListOrders_WeaverScope", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/orders", nil, weaverUser("weav_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("UpdateOrderStatus", func(t *testing.T) {
		var order models.Order
		assert.NoError(t, db.First(&order, "buyer_id = ?", "buyer_1").Error)

		path := fmt.Sprintf("/api/v1/orders/%s/status", order.OrderID)
		w := doRequest(mux, "PUT", path, models.UpdateOrderStatusRequest{
			Status: models.OrderStatusConfirmed,
		}, societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusOK, w.Code)

		// Skipping ahead is rejected with a conflict.
		w = doRequest(mux, "PUT", path, models.UpdateOrderStatusRequest{
			Status: models.OrderStatusDelivered,
		}, societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestV1Handler_Schemes(t *testing.T) {
	mux, db := setupHandlerTest(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)
	scheme := models.GovernmentScheme{
		SchemeID:            "schm_1",
		Title:               "Yarn Subsidy",
		Description:         "Subsidized yarn",
		EligibilityCriteria: "Registered weaver",
		Benefits:            "40% subsidy",
		IsActive:            true,
	}
	assert.NoError(t, db.Create(&scheme).Error)

	t.Run("ListSchemes", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/schemes", nil, weaverUser("weav_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("CreateScheme_AsSocietyAdmin", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/schemes", models.CreateSchemeRequest{
			Title:               "New Scheme",
			Description:         "d",
			EligibilityCriteria: "e",
			Benefits:            "b",
		}, societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("CreateScheme_AsWeaver_Forbidden", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/schemes", models.CreateSchemeRequest{
			Title: "Nope",
		}, weaverUser("weav_1"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ApplyForScheme_AsWeaver", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/schemes/schm_1/applications",
			models.SubmitApplicationRequest{}, weaverUser("weav_1"))

		assert.Equal(t, http.StatusCreated, w.Code)
		var application models.ApplicationResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &application))
		assert.Equal(t, models.SchemeStatusSubmitted, application.Status)
	})

	t.Run("DeactivateScheme", func(t *testing.T) {
		w := doRequest(mux, "DELETE", "/api/v1/schemes/schm_1", nil,
			societyUser("staff_1", models.RoleDistrictHead))

		assert.Equal(t, http.StatusOK, w.Code)

		// Applications against a deactivated scheme conflict.
		w = doRequest(mux, "POST", "/api/v1/schemes/schm_1/applications",
			models.SubmitApplicationRequest{}, weaverUser("weav_1"))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestV1Handler_Applications(t *testing.T) {
	mux, db := setupHandlerTest(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)
	scheme := models.GovernmentScheme{
		SchemeID:            "schm_1",
		Title:               "Scheme",
		Description:         "d",
		EligibilityCriteria: "e",
		Benefits:            "b",
		IsActive:            true,
	}
	assert.NoError(t, db.Create(&scheme).Error)
	submitted := time.Now()
	application := models.SchemeApplication{
		ApplicationID: "app_1",
		WeaverID:      "weav_1",
		SchemeID:      "schm_1",
		Status:        models.SchemeStatusUnderReview,
		SubmittedAt:   &submitted,
	}
	assert.NoError(t, db.Create(&application).Error)

	t.Run("ListApplications_WeaverSeesOwn", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/applications", nil, weaverUser("weav_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("ListApplications_SocietySeesQueue", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/applications", nil,
			societyUser("staff_1", models.RoleDepartmentEmployee))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("ListApplications_BuyerForbidden", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/applications", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ReviewApplication_NonReviewerForbidden", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/applications/app_1/review",
			models.ReviewApplicationRequest{Decision: models.SchemeStatusApproved},
			societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ReviewApplication_Approve", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/applications/app_1/review",
			models.ReviewApplicationRequest{Decision: models.SchemeStatusApproved},
			societyUser("head_1", models.RoleDistrictHead))

		assert.Equal(t, http.StatusOK, w.Code)
		var reviewed models.ApplicationResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviewed))
		assert.Equal(t, models.SchemeStatusApproved, reviewed.Status)

		// The decided item has left the review queue.
		w = doRequest(mux, "GET", "/api/v1/applications", nil,
			societyUser("head_1", models.RoleDistrictHead))
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 0, response.Count)
	})

	t.Run("ReviewApplication_AlreadyDecided_Conflict", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/applications/app_1/review",
			models.ReviewApplicationRequest{Decision: models.SchemeStatusRejected},
			societyUser("head_1", models.RoleHandloomHead))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestV1Handler_Weavers(t *testing.T) {
	db := services.RequireTestDB(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)

	t.Run("OnboardWeaver_WithIdP", func(t *testing.T) {
		var addedToGroup string
		mock := &MockIDP{
			CreateUserFunc: func(ctx context.Context, user *idp.User) (*idp.UserInfo, error) {
				return &idp.UserInfo{Id: "idp_new_weaver", Email: user.Email}, nil
			},
			AddMemberToGroupByGroupNameFunc: func(ctx context.Context, groupName string, member *idp.GroupMember) (*string, error) {
				addedToGroup = groupName
				groupID := "group_weaver"
				return &groupID, nil
			},
		}
		handler := NewV1HandlerWithIdP(db, mock)
		mux := http.NewServeMux()
		handler.SetupV1Routes(mux)

		w := doRequest(mux, "POST", "/api/v1/weavers", models.CreateWeaverRequest{
			FirstName: "Meena",
			LastName:  "Kumari",
			Email:     "meena@example.com",
		}, societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "weaver", addedToGroup)

		var profile models.ProfileResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Equal(t, "idp_new_weaver", profile.ProfileID)
		assert.Equal(t, models.RoleWeaver, profile.Role)
	})

	t.Run("OnboardWeaver_IdPFailure_BadGateway", func(t *testing.T) {
		mock := &MockIDP{
			CreateUserFunc: func(ctx context.Context, user *idp.User) (*idp.UserInfo, error) {
				return nil, errors.New("scim endpoint unavailable")
			},
		}
		handler := NewV1HandlerWithIdP(db, mock)
		mux := http.NewServeMux()
		handler.SetupV1Routes(mux)

		w := doRequest(mux, "POST", "/api/v1/weavers", models.CreateWeaverRequest{
			FirstName: "Meena",
			Email:     "meena2@example.com",
		}, societyUser("staff_1", models.RoleDistrictHead))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("OnboardWeaver_WithoutIdP_LocalID", func(t *testing.T) {
		handler := NewV1Handler(db)
		mux := http.NewServeMux()
		handler.SetupV1Routes(mux)

		w := doRequest(mux, "POST", "/api/v1/weavers", models.CreateWeaverRequest{
			FirstName: "Sita",
			LastName:  "Devi",
			Email:     "sita@example.com",
		}, societyUser("staff_1", models.RoleHandloomHead))

		assert.Equal(t, http.StatusCreated, w.Code)
		var profile models.ProfileResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
		assert.Contains(t, profile.ProfileID, "weav_")
	})

	t.Run("OnboardWeaver_AsWeaver_Forbidden", func(t *testing.T) {
		handler := NewV1Handler(db)
		mux := http.NewServeMux()
		handler.SetupV1Routes(mux)

		w := doRequest(mux, "POST", "/api/v1/weavers", models.CreateWeaverRequest{
			FirstName: "Nope",
			Email:     "nope@example.com",
		}, weaverUser("weav_1"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ListWeavers", func(t *testing.T) {
		handler := NewV1Handler(db)
		mux := http.NewServeMux()
		handler.SetupV1Routes(mux)

		w := doRequest(mux, "GET", "/api/v1/weavers", nil,
			societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("WeaverMetrics_NoneRecorded_NotFound", func(t *testing.T) {
		handler := NewV1Handler(db)
		mux := http.NewServeMux()
		handler.SetupV1Routes(mux)

		w := doRequest(mux, "GET", "/api/v1/weavers/weav_1/metrics", nil,
			societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestV1Handler_Messages(t *testing.T) {
	mux, db := setupHandlerTest(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)
	seedTestProfile(t, db, "staff_1", models.RoleSocietyAdmin)

	t.Run("SendMessage", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/messages", models.SendMessageRequest{
			RecipientID: "staff_1",
			Content:     "The new batch is ready for inspection.",
		}, weaverUser("weav_1"))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("ListMessages", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/messages", nil,
			societyUser("staff_1", models.RoleSocietyAdmin))

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.CollectionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 1, response.Count)
	})

	t.Run("MarkRead_RecipientOnly", func(t *testing.T) {
		var message models.Message
		assert.NoError(t, db.First(&message).Error)
		path := fmt.Sprintf("/api/v1/messages/%s/read", message.MessageID)

		w := doRequest(mux, "PUT", path, nil, weaverUser("weav_1"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doRequest(mux, "PUT", path, nil, societyUser("staff_1", models.RoleSocietyAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestV1Handler_Dashboard(t *testing.T) {
	mux, db := setupHandlerTest(t)
	seedTestProfile(t, db, "weav_1", models.RoleWeaver)
	seedTestSaree(t, db, "saree_1", "weav_1", models.VarietySilk, "Red")

	t.Run("BuyerDashboard", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/dashboard", nil, buyerUser("buyer_new"))

		assert.Equal(t, http.StatusOK, w.Code)
		var view models.BuyerDashboardResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Len(t, view.Sarees, 1)

		// First contact provisions the profile row.
		var profile models.Profile
		assert.NoError(t, db.First(&profile, "profile_id = ?", "buyer_new").Error)
		assert.Equal(t, models.RoleBuyer, profile.Role)
	})

	t.Run("WeaverDashboard", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/dashboard", nil, weaverUser("weav_1"))

		assert.Equal(t, http.StatusOK, w.Code)
		var view models.WeaverDashboardResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Len(t, view.Sarees, 1)
		assert.Nil(t, view.Metrics)
	})

	t.Run("SocietyDashboard", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/dashboard", nil,
			societyUser("staff_1", models.RoleDistrictHead))

		assert.Equal(t, http.StatusOK, w.Code)
		var view models.SocietyDashboardResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Len(t, view.Weavers, 1)
	})

	t.Run("Unauthenticated_401", func(t *testing.T) {
		w := doRequest(mux, "GET", "/api/v1/dashboard", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		w := doRequest(mux, "POST", "/api/v1/dashboard", nil, buyerUser("buyer_1"))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
