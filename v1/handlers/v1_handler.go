package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"github.com/hariram-suresh/loom-harmony/idp"
	"github.com/hariram-suresh/loom-harmony/v1/dashboard"
	"github.com/hariram-suresh/loom-harmony/v1/models"
	"github.com/hariram-suresh/loom-harmony/v1/services"
	"github.com/hariram-suresh/loom-harmony/v1/utils"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	sareeService       *services.SareeService
	orderService       *services.OrderService
	schemeService      *services.SchemeService
	applicationService *services.ApplicationService
	metricService      *services.MetricService
	messageService     *services.MessageService
	profileService     *services.ProfileService
	dashboards         *dashboard.Factory
	idpProvider        idp.IdentityProviderAPI
}

// NewV1Handler creates a new V1 handler without an identity provider;
// onboarded weavers get locally generated IDs.
func NewV1Handler(db *gorm.DB) *V1Handler {
	return NewV1HandlerWithIdP(db, nil)
}

// NewV1HandlerWithIdP creates a new V1 handler backed by an identity
// provider for account provisioning.
func NewV1HandlerWithIdP(db *gorm.DB, idpProvider idp.IdentityProviderAPI) *V1Handler {
	sareeService := services.NewSareeService(db)
	orderService := services.NewOrderService(db)
	schemeService := services.NewSchemeService(db)
	applicationService := services.NewApplicationService(db)
	metricService := services.NewMetricService(db)
	messageService := services.NewMessageService(db)
	profileService := services.NewProfileService(db)
	notifier := services.NewLoggingNotifier()

	return &V1Handler{
		sareeService:       sareeService,
		orderService:       orderService,
		schemeService:      schemeService,
		applicationService: applicationService,
		metricService:      metricService,
		messageService:     messageService,
		profileService:     profileService,
		dashboards: dashboard.NewFactory(sareeService, orderService, schemeService,
			applicationService, metricService, messageService, profileService, notifier),
		idpProvider: idpProvider,
	}
}

// SetupV1Routes configures all V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	mux.Handle("/api/v1/sarees", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleSarees)))
	mux.Handle("/api/v1/sarees/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleSarees)))

	mux.Handle("/api/v1/orders", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleOrders)))
	mux.Handle("/api/v1/orders/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleOrders)))

	mux.Handle("/api/v1/schemes", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleSchemes)))
	mux.Handle("/api/v1/schemes/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleSchemes)))

	mux.Handle("/api/v1/applications", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleApplications)))
	mux.Handle("/api/v1/applications/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleApplications)))

	mux.Handle("/api/v1/weavers", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleWeavers)))
	mux.Handle("/api/v1/weavers/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleWeavers)))

	mux.Handle("/api/v1/messages", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMessages)))
	mux.Handle("/api/v1/messages/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMessages)))

	mux.Handle("/api/v1/dashboard", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleDashboard)))
}

// handleSarees handles saree catalogue routes
func (h *V1Handler) handleSarees(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/sarees")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/sarees and POST /api/v1/sarees
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listSarees(w, r)
		case http.MethodPost:
			h.createSaree(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Saree ID is required")
		return
	}

	sareeID := parts[0]

	// Handle base saree endpoint: GET /api/v1/sarees/:sareeId and PUT /api/v1/sarees/:sareeId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getSaree(w, r, sareeID)
		case http.MethodPut:
			h.updateSaree(w, r, sareeID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleOrders handles order routes
func (h *V1Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/orders")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/orders and POST /api/v1/orders
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listOrders(w, r)
		case http.MethodPost:
			h.placeOrder(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Order ID is required")
		return
	}

	orderID := parts[0]

	// Handle base order endpoint: GET /api/v1/orders/:orderId
	if len(parts) == 1 {
		if r.Method == http.MethodGet {
			h.getOrder(w, r, orderID)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Handle order status: PUT /api/v1/orders/:orderId/status
	if len(parts) == 2 && parts[1] == "status" {
		if r.Method == http.MethodPut {
			h.updateOrderStatus(w, r, orderID)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Handle order progress: /api/v1/orders/:orderId/progress
	if len(parts) == 2 && parts[1] == "progress" {
		switch r.Method {
		case http.MethodGet:
			h.listProgressUpdates(w, r, orderID)
		case http.MethodPost:
			h.createProgressUpdate(w, r, orderID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleSchemes handles government scheme routes
func (h *V1Handler) handleSchemes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/schemes")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/schemes and POST /api/v1/schemes
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listSchemes(w, r)
		case http.MethodPost:
			h.createScheme(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Scheme ID is required")
		return
	}

	schemeID := parts[0]

	// Handle base scheme endpoint: GET /api/v1/schemes/:schemeId and DELETE (deactivate)
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getScheme(w, r, schemeID)
		case http.MethodDelete:
			h.deactivateScheme(w, r, schemeID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Handle scheme applications: POST /api/v1/schemes/:schemeId/applications
	if len(parts) == 2 && parts[1] == "applications" {
		if r.Method == http.MethodPost {
			h.applyForScheme(w, r, schemeID)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleApplications handles scheme application routes
func (h *V1Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/applications")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/applications
	if len(parts) == 1 && parts[0] == "" {
		if r.Method == http.MethodGet {
			h.listApplications(w, r)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Application ID is required")
		return
	}

	applicationID := parts[0]

	// Handle application review: POST /api/v1/applications/:applicationId/review
	if len(parts) == 2 && parts[1] == "review" {
		if r.Method == http.MethodPost {
			h.reviewApplication(w, r, applicationID)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleWeavers handles weaver directory routes
func (h *V1Handler) handleWeavers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/weavers")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/weavers and POST /api/v1/weavers
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listWeavers(w, r)
		case http.MethodPost:
			h.onboardWeaver(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Weaver ID is required")
		return
	}

	weaverID := parts[0]

	// Handle weaver metrics: GET /api/v1/weavers/:weaverId/metrics
	if len(parts) == 2 && parts[1] == "metrics" {
		if r.Method == http.MethodGet {
			h.getWeaverMetrics(w, r, weaverID)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleMessages handles messaging routes
func (h *V1Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/messages")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/messages and POST /api/v1/messages
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.listMessages(w, r)
		case http.MethodPost:
			h.sendMessage(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Message ID is required")
		return
	}

	messageID := parts[0]

	// Handle read receipt: PUT /api/v1/messages/:messageId/read
	if len(parts) == 2 && parts[1] == "read" {
		if r.Method == http.MethodPut {
			h.markMessageRead(w, r, messageID)
		} else {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleDashboard handles the role-dispatched dashboard route
func (h *V1Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.getDashboard(w, r)
}

// Saree handlers

func (h *V1Handler) listSarees(w http.ResponseWriter, r *http.Request) {
	sarees, err := h.sareeService.ListAvailable(r.Context())
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	criteria := dashboard.SareeFilter{
		Variety:  r.URL.Query().Get("variety"),
		Material: r.URL.Query().Get("material"),
		Color:    r.URL.Query().Get("color"),
		Design:   r.URL.Query().Get("design"),
	}
	filtered := dashboard.FilterSarees(sarees, criteria)

	response := models.CollectionResponse{
		Items: filtered,
		Count: len(filtered),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) createSaree(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireRole(r, models.RoleWeaver)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.CreateSareeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saree, err := h.sareeService.CreateSaree(r.Context(), user.UserID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, saree)
}

func (h *V1Handler) getSaree(w http.ResponseWriter, r *http.Request, sareeID string) {
	saree, err := h.sareeService.GetSaree(r.Context(), sareeID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, saree)
}

func (h *V1Handler) updateSaree(w http.ResponseWriter, r *http.Request, sareeID string) {
	user, err := utils.RequireRole(r, models.RoleWeaver)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.UpdateSareeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saree, err := h.sareeService.UpdateSaree(r.Context(), user.UserID, sareeID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, saree)
}

// Order handlers

func (h *V1Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireAuthentication(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var orders []models.OrderResponse
	role := user.GetPrimaryRole()
	switch {
	case role == models.RoleBuyer:
		orders, err = h.orderService.ListForBuyer(r.Context(), user.UserID)
	case role == models.RoleWeaver:
		orders, err = h.orderService.ListForWeaver(r.Context(), user.UserID)
	case role.IsSocietyRole():
		orders, err = h.orderService.ListRecent(r.Context(), 0)
	default:
		utils.RespondWithError(w, http.StatusForbidden, "No order view for this role")
		return
	}
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response := models.CollectionResponse{
		Items: orders,
		Count: len(orders),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireRole(r, models.RoleBuyer)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.dashboards.ForBuyer(user).PlaceOrder(r.Context(), &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, order)
}

func (h *V1Handler) getOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, order)
}

func (h *V1Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, order)
}

func (h *V1Handler) listProgressUpdates(w http.ResponseWriter, r *http.Request, orderID string) {
	updates, err := h.orderService.ListProgressUpdates(r.Context(), orderID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response := models.CollectionResponse{
		Items: updates,
		Count: len(updates),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) createProgressUpdate(w http.ResponseWriter, r *http.Request, orderID string) {
	user, err := utils.RequireRole(r, models.RoleWeaver)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.CreateProgressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update, err := h.orderService.AddProgressUpdate(r.Context(), user.UserID, orderID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, update)
}

// Scheme handlers

func (h *V1Handler) listSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.schemeService.ListActive(r.Context())
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response := models.CollectionResponse{
		Items: schemes,
		Count: len(schemes),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) createScheme(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.RequireAnyRole(r, models.SocietyRoles...); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.CreateSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	scheme, err := h.schemeService.CreateScheme(r.Context(), &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, scheme)
}

func (h *V1Handler) getScheme(w http.ResponseWriter, r *http.Request, schemeID string) {
	scheme, err := h.schemeService.GetScheme(r.Context(), schemeID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, scheme)
}

func (h *V1Handler) deactivateScheme(w http.ResponseWriter, r *http.Request, schemeID string) {
	if _, err := utils.RequireAnyRole(r, models.SocietyRoles...); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	scheme, err := h.schemeService.DeactivateScheme(r.Context(), schemeID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, scheme)
}

func (h *V1Handler) applyForScheme(w http.ResponseWriter, r *http.Request, schemeID string) {
	user, err := utils.RequireRole(r, models.RoleWeaver)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	application, err := h.dashboards.ForWeaver(user).ApplyForScheme(r.Context(), schemeID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, application)
}

// Application handlers

func (h *V1Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireAuthentication(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var applications []models.ApplicationResponse
	role := user.GetPrimaryRole()
	switch {
	case role == models.RoleWeaver:
		applications, err = h.applicationService.ListForWeaver(r.Context(), user.UserID)
	case role.IsSocietyRole():
		applications, err = h.applicationService.ReviewQueue(r.Context())
	default:
		utils.RespondWithError(w, http.StatusForbidden, "No application view for this role")
		return
	}
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response := models.CollectionResponse{
		Items: applications,
		Count: len(applications),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) reviewApplication(w http.ResponseWriter, r *http.Request, applicationID string) {
	user, err := utils.RequireAnyRole(r, models.ReviewerRoles...)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.ReviewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	application, err := h.dashboards.ForSociety(user).ReviewApplication(r.Context(), applicationID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, application)
}

// Weaver directory handlers

func (h *V1Handler) listWeavers(w http.ResponseWriter, r *http.Request) {
	weavers, err := h.profileService.ListWeavers(r.Context())
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response := models.CollectionResponse{
		Items: weavers,
		Count: len(weavers),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) onboardWeaver(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.RequireAnyRole(r, models.RoleSocietyAdmin, models.RoleDistrictHead, models.RoleHandloomHead); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	}

	var req models.CreateWeaverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Provision the account on the identity provider when one is
	// configured; the local profile mirrors its ID.
	profileID := "weav_" + uuid.New().String()
	if h.idpProvider != nil {
		account, err := h.idpProvider.CreateUser(r.Context(), &idp.User{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PhoneNumber: derefString(req.PhoneNumber),
		})
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to provision weaver account")
			return
		}
		profileID = account.Id

		if _, err := h.idpProvider.AddMemberToGroupByGroupName(r.Context(), models.RoleWeaver.String(), &idp.GroupMember{
			Value:   account.Id,
			Display: req.Email,
		}); err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to assign weaver role")
			return
		}
	}

	profile, err := h.profileService.CreateWeaverProfile(r.Context(), profileID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, profile)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *V1Handler) getWeaverMetrics(w http.ResponseWriter, r *http.Request, weaverID string) {
	metrics, err := h.metricService.LatestForWeaver(r.Context(), weaverID)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}
	if metrics == nil {
		utils.RespondWithError(w, http.StatusNotFound, "No metrics recorded for weaver")
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, metrics)
}

// Message handlers

func (h *V1Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireAuthentication(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	messages, err := h.messageService.ListForUser(r.Context(), user.UserID, 0)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	response := models.CollectionResponse{
		Items: messages,
		Count: len(messages),
	}
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireAuthentication(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, err := h.messageService.Send(r.Context(), user.UserID, &req)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, message)
}

func (h *V1Handler) markMessageRead(w http.ResponseWriter, r *http.Request, messageID string) {
	user, err := utils.RequireAuthentication(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.messageService.MarkRead(r.Context(), user.UserID, messageID); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"status": "read"})
}

// Dashboard handler

func (h *V1Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := utils.RequireAuthentication(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if _, err := h.profileService.EnsureProfile(r.Context(), user); err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	view, err := h.dashboards.BuildView(r.Context(), user)
	if err != nil {
		utils.RespondWithAPIError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, view)
}
