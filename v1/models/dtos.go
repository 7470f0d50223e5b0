package models

// CreateSareeRequest represents the request to create a saree listing
type CreateSareeRequest struct {
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Variety     SareeVariety  `json:"variety"`
	Material    SareeMaterial `json:"material"`
	Color       string        `json:"color"`
	Design      string        `json:"design"`
	Price       float64       `json:"price"`
	CostPrice   *float64      `json:"costPrice,omitempty"`
	Images      []string      `json:"images,omitempty"`
}

// UpdateSareeRequest represents the request to update a saree listing
type UpdateSareeRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Design      *string  `json:"design,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}

// SareeResponse represents a saree listing in API responses
type SareeResponse struct {
	SareeID     string        `json:"sareeId"`
	WeaverID    string        `json:"weaverId"`
	WeaverName  string        `json:"weaverName"`
	SocietyName string        `json:"societyName,omitempty"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Variety     SareeVariety  `json:"variety"`
	Material    SareeMaterial `json:"material"`
	Color       string        `json:"color"`
	Design      string        `json:"design"`
	Price       float64       `json:"price"`
	Images      []string      `json:"images,omitempty"`
	IsAvailable bool          `json:"isAvailable"`
	CreatedAt   string        `json:"createdAt"`
}

// PlaceOrderRequest represents the request to place an order
type PlaceOrderRequest struct {
	SareeID         string  `json:"sareeId"`
	TotalAmount     float64 `json:"totalAmount"`
	Quantity        *int    `json:"quantity,omitempty"`
	ShippingAddress JSONMap `json:"shippingAddress,omitempty"`
}

// UpdateOrderStatusRequest represents a fulfillment-driven status change
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	OrderID     string        `json:"orderId"`
	BuyerID     string        `json:"buyerId"`
	BuyerName   string        `json:"buyerName,omitempty"`
	SareeID     string        `json:"sareeId"`
	SareeTitle  string        `json:"sareeTitle"`
	Variety     SareeVariety  `json:"variety,omitempty"`
	Material    SareeMaterial `json:"material,omitempty"`
	Color       string        `json:"color,omitempty"`
	WeaverName  string        `json:"weaverName,omitempty"`
	Quantity    int           `json:"quantity"`
	TotalAmount float64       `json:"totalAmount"`
	Status      OrderStatus   `json:"status"`
	CreatedAt   string        `json:"createdAt"`
}

// CreateSchemeRequest represents the request to create a government scheme
type CreateSchemeRequest struct {
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	EligibilityCriteria string  `json:"eligibilityCriteria"`
	Benefits            string  `json:"benefits"`
	State               *string `json:"state,omitempty"`
	District            *string `json:"district,omitempty"`
	ApplicationDeadline *string `json:"applicationDeadline,omitempty"`
}

// SchemeResponse represents a government scheme in API responses
type SchemeResponse struct {
	SchemeID            string  `json:"schemeId"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	EligibilityCriteria string  `json:"eligibilityCriteria"`
	Benefits            string  `json:"benefits"`
	State               *string `json:"state,omitempty"`
	District            *string `json:"district,omitempty"`
	ApplicationDeadline *string `json:"applicationDeadline,omitempty"`
	IsActive            bool    `json:"isActive"`
	CreatedAt           string  `json:"createdAt"`
}

// SubmitApplicationRequest represents the request to apply for a scheme
type SubmitApplicationRequest struct {
	ApplicationData JSONMap `json:"applicationData,omitempty"`
}

// ReviewApplicationRequest represents a reviewer's terminal decision
type ReviewApplicationRequest struct {
	Decision SchemeStatus `json:"decision"`
	Notes    *string      `json:"notes,omitempty"`
}

// ApplicationResponse represents a scheme application in API responses
type ApplicationResponse struct {
	ApplicationID string       `json:"applicationId"`
	WeaverID      string       `json:"weaverId"`
	WeaverName    string       `json:"weaverName,omitempty"`
	SchemeID      string       `json:"schemeId"`
	SchemeTitle   string       `json:"schemeTitle,omitempty"`
	Status        SchemeStatus `json:"status"`
	SubmittedAt   *string      `json:"submittedAt,omitempty"`
	ReviewedBy    *string      `json:"reviewedBy,omitempty"`
	ReviewNotes   *string      `json:"reviewNotes,omitempty"`
	ReviewedAt    *string      `json:"reviewedAt,omitempty"`
}

// MetricResponse represents a weaver's monthly metrics in API responses
type MetricResponse struct {
	WeaverID        string  `json:"weaverId"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	TotalEarnings   float64 `json:"totalEarnings"`
	OrdersFulfilled int     `json:"ordersFulfilled"`
	SareesCompleted int     `json:"sareesCompleted"`
}

// SendMessageRequest represents the request to send a message
type SendMessageRequest struct {
	RecipientID string  `json:"recipientId"`
	Subject     *string `json:"subject,omitempty"`
	Content     string  `json:"content"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	MessageID     string  `json:"messageId"`
	SenderID      string  `json:"senderId"`
	SenderName    string  `json:"senderName,omitempty"`
	RecipientID   string  `json:"recipientId"`
	RecipientName string  `json:"recipientName,omitempty"`
	Subject       *string `json:"subject,omitempty"`
	Content       string  `json:"content"`
	IsRead        bool    `json:"isRead"`
	CreatedAt     string  `json:"createdAt"`
}

// CreateWeaverRequest represents the request to onboard a weaver. The
// account is provisioned on the identity provider and mirrored locally.
type CreateWeaverRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	State       *string `json:"state,omitempty"`
	District    *string `json:"district,omitempty"`
	SocietyName *string `json:"societyName,omitempty"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ProfileID   string  `json:"profileId"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	State       *string `json:"state,omitempty"`
	District    *string `json:"district,omitempty"`
	SocietyName *string `json:"societyName,omitempty"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
}

// CreateProgressUpdateRequest represents a weaver's progress note
type CreateProgressUpdateRequest struct {
	Status string   `json:"status"`
	Note   *string  `json:"note,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ProgressUpdateResponse represents a progress note in API responses
type ProgressUpdateResponse struct {
	UpdateID  string   `json:"updateId"`
	OrderID   string   `json:"orderId"`
	WeaverID  string   `json:"weaverId"`
	Status    string   `json:"status"`
	Note      *string  `json:"note,omitempty"`
	Images    []string `json:"images,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

// CollectionResponse wraps list responses with a count
type CollectionResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

// BuyerDashboardResponse aggregates the buyer view collections
type BuyerDashboardResponse struct {
	Sarees []SareeResponse `json:"sarees"`
	Orders []OrderResponse `json:"orders"`
}

// WeaverDashboardResponse aggregates the weaver view collections
type WeaverDashboardResponse struct {
	Metrics *MetricResponse  `json:"metrics,omitempty"`
	Orders  []OrderResponse  `json:"orders"`
	Schemes []SchemeResponse `json:"schemes"`
	Sarees  []SareeResponse  `json:"sarees"`
}

// SocietyDashboardResponse aggregates the society view collections
type SocietyDashboardResponse struct {
	Weavers      []ProfileResponse     `json:"weavers"`
	RecentOrders []OrderResponse       `json:"recentOrders"`
	ReviewQueue  []ApplicationResponse `json:"reviewQueue"`
	Messages     []MessageResponse     `json:"messages"`
}
