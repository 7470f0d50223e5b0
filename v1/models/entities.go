package models

import "time"

// Profile represents the profiles table. Every authenticated user has a
// profile row keyed by the IdP subject.
type Profile struct {
	ProfileID   string  `gorm:"primarykey;column:profile_id" json:"profileId"`
	FullName    string  `gorm:"column:full_name;not null" json:"fullName"`
	Email       string  `gorm:"column:email;not null" json:"email"`
	PhoneNumber *string `gorm:"column:phone_number" json:"phoneNumber,omitempty"`
	Role        Role    `gorm:"column:role;not null" json:"role"`
	State       *string `gorm:"column:state" json:"state,omitempty"`
	District    *string `gorm:"column:district" json:"district,omitempty"`
	SocietyName *string `gorm:"column:society_name" json:"societyName,omitempty"`
	ParentID    *string `gorm:"column:parent_id" json:"parentId,omitempty"`
	IsActive    bool    `gorm:"column:is_active;default:true" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// Saree represents the sarees table
type Saree struct {
	SareeID     string        `gorm:"primarykey;column:saree_id" json:"sareeId"`
	WeaverID    string        `gorm:"column:weaver_id;not null" json:"weaverId"`
	Title       string        `gorm:"column:title;not null" json:"title"`
	Description *string       `gorm:"column:description" json:"description,omitempty"`
	Variety     SareeVariety  `gorm:"column:variety;not null" json:"variety"`
	Material    SareeMaterial `gorm:"column:material;not null" json:"material"`
	Color       string        `gorm:"column:color;not null" json:"color"`
	Design      string        `gorm:"column:design;not null" json:"design"`
	Price       float64       `gorm:"column:price;not null" json:"price"`
	CostPrice   *float64      `gorm:"column:cost_price" json:"costPrice,omitempty"`
	Images      StringSlice   `gorm:"column:images" json:"images"`
	IsAvailable bool          `gorm:"column:is_available;default:true" json:"isAvailable"`
	BaseModel

	// Relationships
	Weaver Profile `gorm:"foreignKey:WeaverID;references:ProfileID" json:"weaver"`
}

// TableName sets the table name for GORM
func (Saree) TableName() string {
	return "sarees"
}

// Order represents the orders table
type Order struct {
	OrderID          string      `gorm:"primarykey;column:order_id" json:"orderId"`
	BuyerID          string      `gorm:"column:buyer_id;not null" json:"buyerId"`
	SareeID          string      `gorm:"column:saree_id;not null" json:"sareeId"`
	Quantity         int         `gorm:"column:quantity;default:1" json:"quantity"`
	TotalAmount      float64     `gorm:"column:total_amount;not null" json:"totalAmount"`
	Status           OrderStatus `gorm:"column:status;not null" json:"status"`
	ShippingAddress  JSONMap     `gorm:"column:shipping_address" json:"shippingAddress,omitempty"`
	PaymentSessionID *string     `gorm:"column:payment_session_id" json:"paymentSessionId,omitempty"`
	BaseModel

	// Relationships
	Buyer Profile `gorm:"foreignKey:BuyerID;references:ProfileID" json:"buyer"`
	Saree Saree   `gorm:"foreignKey:SareeID;references:SareeID" json:"saree"`
}

// TableName sets the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// GovernmentScheme represents the government_schemes table
type GovernmentScheme struct {
	SchemeID            string     `gorm:"primarykey;column:scheme_id" json:"schemeId"`
	Title               string     `gorm:"column:title;not null" json:"title"`
	Description         string     `gorm:"column:description;not null" json:"description"`
	EligibilityCriteria string     `gorm:"column:eligibility_criteria;not null" json:"eligibilityCriteria"`
	Benefits            string     `gorm:"column:benefits;not null" json:"benefits"`
	State               *string    `gorm:"column:state" json:"state,omitempty"`
	District            *string    `gorm:"column:district" json:"district,omitempty"`
	ApplicationDeadline *time.Time `gorm:"column:application_deadline" json:"applicationDeadline,omitempty"`
	IsActive            bool       `gorm:"column:is_active;default:true" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (GovernmentScheme) TableName() string {
	return "government_schemes"
}

// SchemeApplication represents the scheme_applications table
type SchemeApplication struct {
	ApplicationID   string       `gorm:"primarykey;column:application_id" json:"applicationId"`
	WeaverID        string       `gorm:"column:weaver_id;not null" json:"weaverId"`
	SchemeID        string       `gorm:"column:scheme_id;not null" json:"schemeId"`
	Status          SchemeStatus `gorm:"column:status;not null" json:"status"`
	ApplicationData JSONMap      `gorm:"column:application_data" json:"applicationData,omitempty"`
	SubmittedAt     *time.Time   `gorm:"column:submitted_at" json:"submittedAt,omitempty"`
	ReviewedBy      *string      `gorm:"column:reviewed_by" json:"reviewedBy,omitempty"`
	ReviewNotes     *string      `gorm:"column:review_notes" json:"reviewNotes,omitempty"`
	ReviewedAt      *time.Time   `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	BaseModel

	// Relationships
	Weaver Profile          `gorm:"foreignKey:WeaverID;references:ProfileID" json:"weaver"`
	Scheme GovernmentScheme `gorm:"foreignKey:SchemeID;references:SchemeID" json:"scheme"`
}

// TableName sets the table name for GORM
func (SchemeApplication) TableName() string {
	return "scheme_applications"
}

// WeaverMetric represents the weaver_metrics table, one row per weaver
// per calendar month.
type WeaverMetric struct {
	MetricID        string  `gorm:"primarykey;column:metric_id" json:"metricId"`
	WeaverID        string  `gorm:"column:weaver_id;not null" json:"weaverId"`
	Year            int     `gorm:"column:year;not null" json:"year"`
	Month           int     `gorm:"column:month;not null" json:"month"`
	TotalEarnings   float64 `gorm:"column:total_earnings;default:0" json:"totalEarnings"`
	OrdersFulfilled int     `gorm:"column:orders_fulfilled;default:0" json:"ordersFulfilled"`
	SareesCompleted int     `gorm:"column:sarees_completed;default:0" json:"sareesCompleted"`
	BaseModel
}

// TableName sets the table name for GORM
func (WeaverMetric) TableName() string {
	return "weaver_metrics"
}

// Message represents the messages table
type Message struct {
	MessageID   string  `gorm:"primarykey;column:message_id" json:"messageId"`
	SenderID    string  `gorm:"column:sender_id;not null" json:"senderId"`
	RecipientID string  `gorm:"column:recipient_id;not null" json:"recipientId"`
	Subject     *string `gorm:"column:subject" json:"subject,omitempty"`
	Content     string  `gorm:"column:content;not null" json:"content"`
	IsRead      bool    `gorm:"column:is_read;default:false" json:"isRead"`
	BaseModel

	// Relationships
	Sender    Profile `gorm:"foreignKey:SenderID;references:ProfileID" json:"sender"`
	Recipient Profile `gorm:"foreignKey:RecipientID;references:ProfileID" json:"recipient"`
}

// TableName sets the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// ProgressUpdate represents the progress_updates table, weaver-authored
// notes against an in-flight order.
type ProgressUpdate struct {
	UpdateID string      `gorm:"primarykey;column:update_id" json:"updateId"`
	OrderID  string      `gorm:"column:order_id;not null" json:"orderId"`
	WeaverID string      `gorm:"column:weaver_id;not null" json:"weaverId"`
	Status   string      `gorm:"column:status;not null" json:"status"`
	Note     *string     `gorm:"column:note" json:"note,omitempty"`
	Images   StringSlice `gorm:"column:images" json:"images"`
	BaseModel

	// Relationships
	Order  Order   `gorm:"foreignKey:OrderID;references:OrderID" json:"order"`
	Weaver Profile `gorm:"foreignKey:WeaverID;references:ProfileID" json:"weaver"`
}

// TableName sets the table name for GORM
func (ProgressUpdate) TableName() string {
	return "progress_updates"
}
