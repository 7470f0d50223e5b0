package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// OrderService handles order operations
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ListForBuyer retrieves a buyer's orders, newest first, with the saree inlined
func (s *OrderService) ListForBuyer(ctx context.Context, buyerID string) ([]models.OrderResponse, error) {
	var orders []models.Order

	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Saree").
		Preload("Saree.Weaver").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	monitoring.RecordDBCall(ctx, "orders", "list_for_buyer", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list buyer orders", err)
	}

	return toOrderResponses(orders), nil
}

// ListForWeaver retrieves orders against any of the weaver's sarees,
// newest first.
func (s *OrderService) ListForWeaver(ctx context.Context, weaverID string) ([]models.OrderResponse, error) {
	var orders []models.Order

	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Saree").
		Preload("Saree.Weaver").
		Joins("JOIN sarees ON sarees.saree_id = orders.saree_id").
		Where("sarees.weaver_id = ?", weaverID).
		Order("orders.created_at DESC").
		Find(&orders).Error
	monitoring.RecordDBCall(ctx, "orders", "list_for_weaver", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list weaver orders", err)
	}

	return toOrderResponses(orders), nil
}

// ListRecent retrieves the most recent orders across the marketplace,
// for society overview dashboards.
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]models.OrderResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	var orders []models.Order

	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Saree").
		Preload("Saree.Weaver").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	monitoring.RecordDBCall(ctx, "orders", "list_recent", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list recent orders", err)
	}

	return toOrderResponses(orders), nil
}

// GetOrder retrieves a single order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.OrderResponse, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Saree").
		Preload("Saree.Weaver").
		First(&order, "order_id = ?", orderID).Error
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "order", "get order")
	}

	response := toOrderResponse(order)
	return &response, nil
}

// PlaceOrder creates an order in the initial pending state, owned by the
// buyer. The listing must exist and be available.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID string, req *models.PlaceOrderRequest) (*models.OrderResponse, error) {
	if req.SareeID == "" {
		return nil, apierrors.ValidationError("MISSING_SAREE_ID", "Saree ID is required")
	}
	if req.TotalAmount <= 0 {
		return nil, apierrors.ValidationError("INVALID_AMOUNT", "Total amount must be positive")
	}

	var saree models.Saree
	if err := s.db.WithContext(ctx).First(&saree, "saree_id = ?", req.SareeID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "saree", "get saree for order")
	}
	if !saree.IsAvailable {
		return nil, apierrors.ConflictError("Saree is no longer available")
	}

	quantity := 1
	if req.Quantity != nil && *req.Quantity > 0 {
		quantity = *req.Quantity
	}

	order := models.Order{
		OrderID:         "order_" + uuid.New().String(),
		BuyerID:         buyerID,
		SareeID:         req.SareeID,
		Quantity:        quantity,
		TotalAmount:     req.TotalAmount,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Create(&order).Error
	monitoring.RecordDBCall(ctx, "orders", "create", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("place order", err)
	}

	order.Saree = saree
	response := toOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves an order along its lifecycle. Transitions are
// validated against the state machine; fulfillment actors drive them.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.OrderResponse, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error
	if err != nil {
		return nil, apierrors.HandleDatabaseError(err, "order", "get order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apierrors.ConflictError(
			fmt.Sprintf("Cannot transition order from %s to %s", order.Status, next))
	}

	order.Status = next
	start := time.Now()
	err = s.db.WithContext(ctx).Save(&order).Error
	monitoring.RecordDBCall(ctx, "orders", "update_status", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("update order status", err)
	}

	response := toOrderResponse(order)
	return &response, nil
}

// AddProgressUpdate records a weaver's progress note against an order.
// Only the weaver who owns the ordered saree may post one.
func (s *OrderService) AddProgressUpdate(ctx context.Context, weaverID, orderID string, req *models.CreateProgressUpdateRequest) (*models.ProgressUpdateResponse, error) {
	if req.Status == "" {
		return nil, apierrors.ValidationError("MISSING_STATUS", "Progress status is required")
	}

	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Saree").First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "order", "get order")
	}
	if order.Saree.WeaverID != weaverID {
		return nil, apierrors.ForbiddenError("Only the weaver fulfilling this order can post progress")
	}

	update := models.ProgressUpdate{
		UpdateID: "prog_" + uuid.New().String(),
		OrderID:  orderID,
		WeaverID: weaverID,
		Status:   req.Status,
		Note:     req.Note,
		Images:   models.StringSlice(req.Images),
	}

	if err := s.db.WithContext(ctx).Create(&update).Error; err != nil {
		return nil, apierrors.DatabaseError("create progress update", err)
	}

	return &models.ProgressUpdateResponse{
		UpdateID:  update.UpdateID,
		OrderID:   update.OrderID,
		WeaverID:  update.WeaverID,
		Status:    update.Status,
		Note:      update.Note,
		Images:    []string(update.Images),
		CreatedAt: update.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListProgressUpdates retrieves the progress trail for an order, oldest first
func (s *OrderService) ListProgressUpdates(ctx context.Context, orderID string) ([]models.ProgressUpdateResponse, error) {
	var updates []models.ProgressUpdate
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&updates).Error
	if err != nil {
		return nil, apierrors.DatabaseError("list progress updates", err)
	}

	responses := make([]models.ProgressUpdateResponse, 0, len(updates))
	for _, update := range updates {
		responses = append(responses, models.ProgressUpdateResponse{
			UpdateID:  update.UpdateID,
			OrderID:   update.OrderID,
			WeaverID:  update.WeaverID,
			Status:    update.Status,
			Note:      update.Note,
			Images:    []string(update.Images),
			CreatedAt: update.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses, nil
}

func toOrderResponses(orders []models.Order) []models.OrderResponse {
	responses := make([]models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	return responses
}

// toOrderResponse maps the entity to its API shape. Missing joined rows
// render as empty fields, never as an error.
func toOrderResponse(order models.Order) models.OrderResponse {
	return models.OrderResponse{
		OrderID:     order.OrderID,
		BuyerID:     order.BuyerID,
		BuyerName:   order.Buyer.FullName,
		SareeID:     order.SareeID,
		SareeTitle:  order.Saree.Title,
		Variety:     order.Saree.Variety,
		Material:    order.Saree.Material,
		Color:       order.Saree.Color,
		WeaverName:  order.Saree.Weaver.FullName,
		Quantity:    order.Quantity,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
	}
}
