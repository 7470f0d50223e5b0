package models

import "fmt"

// OrderStatus represents the lifecycle state of an order. Transitions are
// server-authoritative; clients only ever create the initial pending state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions maps each order status to the set of statuses it may
// move to next. Cancelled is reachable from every non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusCompleted:  {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether the status may legally move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SchemeStatus represents the review lifecycle of a scheme application.
type SchemeStatus string

const (
	SchemeStatusDraft       SchemeStatus = "draft"
	SchemeStatusSubmitted   SchemeStatus = "submitted"
	SchemeStatusUnderReview SchemeStatus = "under_review"
	SchemeStatusApproved    SchemeStatus = "approved"
	SchemeStatusRejected    SchemeStatus = "rejected"
)

var schemeTransitions = map[SchemeStatus][]SchemeStatus{
	SchemeStatusDraft:       {SchemeStatusSubmitted},
	SchemeStatusSubmitted:   {SchemeStatusUnderReview, SchemeStatusApproved, SchemeStatusRejected},
	SchemeStatusUnderReview: {SchemeStatusApproved, SchemeStatusRejected},
	SchemeStatusApproved:    {},
	SchemeStatusRejected:    {},
}

// IsTerminal reports whether the application has reached a final decision.
func (s SchemeStatus) IsTerminal() bool {
	return len(schemeTransitions[s]) == 0
}

// CanTransitionTo reports whether the status may legally move to next.
func (s SchemeStatus) CanTransitionTo(next SchemeStatus) bool {
	for _, allowed := range schemeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReviewableSchemeStatuses is the scope predicate for the review queue.
// Items leaving these states disappear from the queue on the next load.
var ReviewableSchemeStatuses = []SchemeStatus{SchemeStatusSubmitted, SchemeStatusUnderReview}

// SareeVariety is a closed classifier for saree listings.
type SareeVariety string

const (
	VarietySilk       SareeVariety = "silk"
	VarietyCotton     SareeVariety = "cotton"
	VarietyHandloom   SareeVariety = "handloom"
	VarietyBanarasi   SareeVariety = "banarasi"
	VarietyKanjivaram SareeVariety = "kanjivaram"
	VarietyOther      SareeVariety = "other"
)

// SareeMaterial is a closed classifier for saree listings.
type SareeMaterial string

const (
	MaterialPureSilk   SareeMaterial = "pure_silk"
	MaterialCotton     SareeMaterial = "cotton"
	MaterialSilkCotton SareeMaterial = "silk_cotton"
	MaterialSynthetic  SareeMaterial = "synthetic"
	MaterialLinen      SareeMaterial = "linen"
	MaterialOther      SareeMaterial = "other"
)

// Role represents user roles in the system
type Role string

const (
	RoleWeaver             Role = "weaver"
	RoleBuyer              Role = "buyer"
	RoleSocietyAdmin       Role = "society_admin"
	RoleDepartmentEmployee Role = "department_employee"
	RoleDistrictHead       Role = "district_head"
	RoleHandloomHead       Role = "handloom_head"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole maps a raw role claim to a known Role. Unrecognized roles are
// an explicit error rather than silently falling back to a default view.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleWeaver, RoleBuyer, RoleSocietyAdmin, RoleDepartmentEmployee, RoleDistrictHead, RoleHandloomHead:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unrecognized role: %q", raw)
}

// SocietyRoles are the roles that share the society dashboard.
var SocietyRoles = []Role{RoleSocietyAdmin, RoleDepartmentEmployee, RoleDistrictHead, RoleHandloomHead}

// ReviewerRoles are the roles allowed to decide scheme applications.
var ReviewerRoles = []Role{RoleDistrictHead, RoleHandloomHead}

// IsSocietyRole reports whether the role belongs to the society hierarchy.
func (r Role) IsSocietyRole() bool {
	for _, role := range SocietyRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Field length constraints remain as regular constants
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
	MaxEmailLength       = 320 // RFC 3696
	MaxPhoneLength       = 15  // E.164 format
	MaxReviewNotesLength = 2000
)
