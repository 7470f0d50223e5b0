package models

// AuthorizationMode defines how the system behaves when no explicit permission is defined for an endpoint
type AuthorizationMode string

const (
	// AuthorizationModeFailClosed - Deny all access to undefined endpoints (most secure)
	AuthorizationModeFailClosed AuthorizationMode = "fail_closed"

	// AuthorizationModeFailOpen - Allow authenticated users through undefined endpoints
	AuthorizationModeFailOpen AuthorizationMode = "fail_open"
)

// Permission represents specific permissions
type Permission string

const (
	// Saree permissions
	PermissionCreateSaree   Permission = "saree:create"
	PermissionReadSaree     Permission = "saree:read"
	PermissionUpdateSaree   Permission = "saree:update"
	PermissionReadAllSarees Permission = "saree:read:all"

	// Order permissions
	PermissionPlaceOrder         Permission = "order:create"
	PermissionReadOrder          Permission = "order:read"
	PermissionUpdateOrderStatus  Permission = "order:update_status"
	PermissionReadAllOrders      Permission = "order:read:all"
	PermissionPostProgressUpdate Permission = "order:progress:create"

	// Scheme permissions
	PermissionReadScheme   Permission = "scheme:read"
	PermissionCreateScheme Permission = "scheme:create"
	PermissionUpdateScheme Permission = "scheme:update"

	// Scheme application permissions
	PermissionSubmitApplication  Permission = "application:submit"
	PermissionReadApplication    Permission = "application:read"
	PermissionReviewApplication  Permission = "application:review"
	PermissionReadReviewQueue    Permission = "application:read:queue"

	// Profile permissions
	PermissionReadProfile    Permission = "profile:read"
	PermissionReadAllWeavers Permission = "profile:read:weavers"
	PermissionUpdateProfile  Permission = "profile:update"
	PermissionOnboardWeaver  Permission = "profile:create:weaver"

	// Metric permissions
	PermissionReadMetrics Permission = "metric:read"

	// Message permissions
	PermissionReadMessages Permission = "message:read"
	PermissionSendMessage  Permission = "message:send"
)

// RolePermissions defines what permissions each role has
var RolePermissions = map[Role][]Permission{
	RoleBuyer: {
		PermissionReadSaree, PermissionReadAllSarees,
		PermissionPlaceOrder, PermissionReadOrder,
		PermissionReadProfile,
	},
	RoleWeaver: {
		PermissionCreateSaree, PermissionReadSaree, PermissionUpdateSaree,
		PermissionReadOrder, PermissionPostProgressUpdate,
		PermissionReadScheme, PermissionSubmitApplication, PermissionReadApplication,
		PermissionReadProfile, PermissionUpdateProfile, PermissionReadMetrics,
		PermissionReadMessages, PermissionSendMessage,
	},
	RoleSocietyAdmin: {
		PermissionReadSaree, PermissionReadAllSarees,
		PermissionReadOrder, PermissionReadAllOrders, PermissionUpdateOrderStatus,
		PermissionReadScheme, PermissionCreateScheme, PermissionUpdateScheme,
		PermissionReadApplication, PermissionReadReviewQueue,
		PermissionReadProfile, PermissionReadAllWeavers, PermissionOnboardWeaver, PermissionReadMetrics,
		PermissionReadMessages, PermissionSendMessage,
	},
	RoleDepartmentEmployee: {
		PermissionReadSaree, PermissionReadAllSarees,
		PermissionReadOrder, PermissionReadAllOrders,
		PermissionReadScheme,
		PermissionReadApplication, PermissionReadReviewQueue,
		PermissionReadProfile, PermissionReadAllWeavers, PermissionReadMetrics,
		PermissionReadMessages, PermissionSendMessage,
	},
	RoleDistrictHead: {
		PermissionReadSaree, PermissionReadAllSarees,
		PermissionReadOrder, PermissionReadAllOrders, PermissionUpdateOrderStatus,
		PermissionReadScheme, PermissionCreateScheme, PermissionUpdateScheme,
		PermissionReadApplication, PermissionReadReviewQueue, PermissionReviewApplication,
		PermissionReadProfile, PermissionReadAllWeavers, PermissionOnboardWeaver, PermissionReadMetrics,
		PermissionReadMessages, PermissionSendMessage,
	},
	RoleHandloomHead: {
		PermissionReadSaree, PermissionReadAllSarees,
		PermissionReadOrder, PermissionReadAllOrders, PermissionUpdateOrderStatus,
		PermissionReadScheme, PermissionCreateScheme, PermissionUpdateScheme,
		PermissionReadApplication, PermissionReadReviewQueue, PermissionReviewApplication,
		PermissionReadProfile, PermissionReadAllWeavers, PermissionOnboardWeaver, PermissionReadMetrics,
		PermissionReadMessages, PermissionSendMessage,
	},
}

// HasPermission checks whether the role grants the given permission
func (r Role) HasPermission(permission Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// EndpointPermission defines the required permission for each endpoint
type EndpointPermission struct {
	Method              string
	Path                string
	Permission          Permission
	IsOwnershipRequired bool // Whether the user must own the resource
}

// EndpointPermissions maps HTTP endpoints to required permissions.
// Paths ending in "*" match a single trailing segment.
var EndpointPermissions = []EndpointPermission{
	// Saree endpoints
	{"GET", "/api/v1/sarees", PermissionReadSaree, false},
	{"POST", "/api/v1/sarees", PermissionCreateSaree, false},
	{"GET", "/api/v1/sarees/*", PermissionReadSaree, false},
	{"PUT", "/api/v1/sarees/*", PermissionUpdateSaree, true},

	// Order endpoints
	{"GET", "/api/v1/orders", PermissionReadOrder, false},
	{"POST", "/api/v1/orders", PermissionPlaceOrder, false},
	{"GET", "/api/v1/orders/*", PermissionReadOrder, true},
	{"PUT", "/api/v1/orders/*/status", PermissionUpdateOrderStatus, false},
	{"POST", "/api/v1/orders/*/progress", PermissionPostProgressUpdate, true},
	{"GET", "/api/v1/orders/*/progress", PermissionReadOrder, false},

	// Scheme endpoints
	{"GET", "/api/v1/schemes", PermissionReadScheme, false},
	{"POST", "/api/v1/schemes", PermissionCreateScheme, false},
	{"GET", "/api/v1/schemes/*", PermissionReadScheme, false},
	{"DELETE", "/api/v1/schemes/*", PermissionUpdateScheme, false},
	{"POST", "/api/v1/schemes/*/applications", PermissionSubmitApplication, false},

	// Scheme application endpoints
	{"GET", "/api/v1/applications", PermissionReadApplication, false},
	{"POST", "/api/v1/applications/*/review", PermissionReviewApplication, false},

	// Profile endpoints
	{"GET", "/api/v1/weavers", PermissionReadAllWeavers, false},
	{"POST", "/api/v1/weavers", PermissionOnboardWeaver, false},
	{"GET", "/api/v1/weavers/*/metrics", PermissionReadMetrics, false},

	// Dashboard endpoint (every role resolves to its own view)
	{"GET", "/api/v1/dashboard", PermissionReadProfile, false},

	// Message endpoints
	{"GET", "/api/v1/messages", PermissionReadMessages, false},
	{"POST", "/api/v1/messages", PermissionSendMessage, false},
	{"PUT", "/api/v1/messages/*/read", PermissionReadMessages, true},
}
