package dashboard

import (
	"context"
	"sync"

	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
	"github.com/hariram-suresh/loom-harmony/v1/services"
)

// BuyerDashboard holds the buyer view: the browsable saree catalogue
// with client-side filter criteria, and the buyer's own orders. Both
// collections are server-owned snapshots; placing an order triggers a
// full re-load of the order collection rather than a local merge.
type BuyerDashboard struct {
	buyerID string

	sarees *Loader[models.SareeResponse]
	orders *Loader[models.OrderResponse]

	mu       sync.Mutex
	criteria SareeFilter

	orderService *services.OrderService
	notifier     services.Notifier
}

// NewBuyerDashboard creates a buyer dashboard for the given user
func NewBuyerDashboard(buyerID string, sareeService *services.SareeService, orderService *services.OrderService, notifier services.Notifier) *BuyerDashboard {
	return &BuyerDashboard{
		buyerID: buyerID,
		sarees: NewLoader("sarees", func(ctx context.Context) ([]models.SareeResponse, error) {
			return sareeService.ListAvailable(ctx)
		}),
		orders: NewLoader("orders", func(ctx context.Context) ([]models.OrderResponse, error) {
			return orderService.ListForBuyer(ctx, buyerID)
		}),
		orderService: orderService,
		notifier:     notifier,
	}
}

// Refresh re-loads both collections from the server
func (d *BuyerDashboard) Refresh(ctx context.Context) {
	d.sarees.Load(ctx)
	d.orders.Load(ctx)
}

// SetCriteria replaces the filter criteria wholesale. The next call to
// Sarees derives against the new record.
func (d *BuyerDashboard) SetCriteria(criteria SareeFilter) {
	d.mu.Lock()
	d.criteria = criteria
	d.mu.Unlock()
}

// ClearCriteria resets every criterion, restoring the unfiltered view
func (d *BuyerDashboard) ClearCriteria() {
	d.SetCriteria(SareeFilter{})
}

// Criteria returns the current filter criteria
func (d *BuyerDashboard) Criteria() SareeFilter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.criteria
}

// Sarees derives the filtered catalogue view from the current snapshot
func (d *BuyerDashboard) Sarees() []models.SareeResponse {
	return FilterSarees(d.sarees.Snapshot(), d.Criteria())
}

// Orders returns the buyer's order snapshot
func (d *BuyerDashboard) Orders() []models.OrderResponse {
	return d.orders.Snapshot()
}

// PlaceOrder creates a pending order for the buyer and, on success,
// re-loads the order collection. On failure it emits one notification
// and leaves every snapshot untouched; there is no retry and nothing
// was applied locally, so nothing needs rolling back.
func (d *BuyerDashboard) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.OrderResponse, error) {
	order, err := d.orderService.PlaceOrder(ctx, d.buyerID, req)
	if err != nil {
		monitoring.RecordBusinessEvent(ctx, "place_order", "failure")
		d.notifier.NotifyFailure(ctx, d.buyerID, "place_order", err.Error())
		return nil, err
	}

	monitoring.RecordBusinessEvent(ctx, "place_order", "success")
	d.notifier.NotifySuccess(ctx, d.buyerID, "place_order", order.OrderID)
	d.orders.Load(ctx)
	return order, nil
}

// View assembles the response payload from the current snapshots
func (d *BuyerDashboard) View() *models.BuyerDashboardResponse {
	return &models.BuyerDashboardResponse{
		Sarees: d.Sarees(),
		Orders: d.Orders(),
	}
}
