package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
	"github.com/hariram-suresh/loom-harmony/v1/services"
)

// WeaverDashboard holds the weaver view: latest monthly metrics, orders
// placed against the weaver's sarees, active government schemes, and the
// weaver's own listings. Applying for a scheme resyncs the application
// collection the same way placing an order resyncs a buyer's orders.
type WeaverDashboard struct {
	weaverID string

	orders       *Loader[models.OrderResponse]
	schemes      *Loader[models.SchemeResponse]
	sarees       *Loader[models.SareeResponse]
	applications *Loader[models.ApplicationResponse]

	mu      sync.Mutex
	metrics *models.MetricResponse

	metricService      *services.MetricService
	applicationService *services.ApplicationService
	notifier           services.Notifier
}

// NewWeaverDashboard creates a weaver dashboard for the given user
func NewWeaverDashboard(weaverID string, sareeService *services.SareeService, orderService *services.OrderService, schemeService *services.SchemeService, applicationService *services.ApplicationService, metricService *services.MetricService, notifier services.Notifier) *WeaverDashboard {
	return &WeaverDashboard{
		weaverID: weaverID,
		orders: NewLoader("weaver_orders", func(ctx context.Context) ([]models.OrderResponse, error) {
			return orderService.ListForWeaver(ctx, weaverID)
		}),
		schemes: NewLoader("schemes", func(ctx context.Context) ([]models.SchemeResponse, error) {
			return schemeService.ListActive(ctx)
		}),
		sarees: NewLoader("weaver_sarees", func(ctx context.Context) ([]models.SareeResponse, error) {
			return sareeService.ListByWeaver(ctx, weaverID)
		}),
		applications: NewLoader("weaver_applications", func(ctx context.Context) ([]models.ApplicationResponse, error) {
			return applicationService.ListForWeaver(ctx, weaverID)
		}),
		metricService:      metricService,
		applicationService: applicationService,
		notifier:           notifier,
	}
}

// Refresh re-loads every collection and the latest metric row
func (d *WeaverDashboard) Refresh(ctx context.Context) {
	d.orders.Load(ctx)
	d.schemes.Load(ctx)
	d.sarees.Load(ctx)
	d.applications.Load(ctx)

	metrics, err := d.metricService.LatestForWeaver(ctx, d.weaverID)
	if err != nil {
		slog.ErrorContext(ctx, "Metrics load failed, leaving metrics empty",
			"weaverId", d.weaverID,
			"error", err)
		metrics = nil
	}
	d.mu.Lock()
	d.metrics = metrics
	d.mu.Unlock()
}

// Orders returns orders placed against the weaver's sarees
func (d *WeaverDashboard) Orders() []models.OrderResponse {
	return d.orders.Snapshot()
}

// Schemes returns the active government schemes
func (d *WeaverDashboard) Schemes() []models.SchemeResponse {
	return d.schemes.Snapshot()
}

// Sarees returns the weaver's own listings
func (d *WeaverDashboard) Sarees() []models.SareeResponse {
	return d.sarees.Snapshot()
}

// Applications returns the weaver's scheme applications
func (d *WeaverDashboard) Applications() []models.ApplicationResponse {
	return d.applications.Snapshot()
}

// Metrics returns the latest monthly metric row, or nil when the weaver
// has no recorded months
func (d *WeaverDashboard) Metrics() *models.MetricResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}

// ApplyForScheme submits a scheme application for the weaver and, on
// success, re-loads the application collection. On failure it emits one
// notification and leaves every snapshot untouched.
func (d *WeaverDashboard) ApplyForScheme(ctx context.Context, schemeID string, req *models.SubmitApplicationRequest) (*models.ApplicationResponse, error) {
	application, err := d.applicationService.Submit(ctx, d.weaverID, schemeID, req)
	if err != nil {
		monitoring.RecordBusinessEvent(ctx, "apply_for_scheme", "failure")
		d.notifier.NotifyFailure(ctx, d.weaverID, "apply_for_scheme", err.Error())
		return nil, err
	}

	monitoring.RecordBusinessEvent(ctx, "apply_for_scheme", "success")
	d.notifier.NotifySuccess(ctx, d.weaverID, "apply_for_scheme", application.ApplicationID)
	d.applications.Load(ctx)
	return application, nil
}

// View assembles the response payload from the current snapshots
func (d *WeaverDashboard) View() *models.WeaverDashboardResponse {
	return &models.WeaverDashboardResponse{
		Metrics: d.Metrics(),
		Orders:  d.Orders(),
		Schemes: d.Schemes(),
		Sarees:  d.Sarees(),
	}
}
