package dashboard

import (
	"context"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
	"github.com/hariram-suresh/loom-harmony/v1/services"
)

const recentOrderLimit = 10

// SocietyDashboard holds the society view: registered weavers, recent
// orders, the scheme application review queue, and the staff member's
// messages. The review queue is scoped to non-terminal statuses, so a
// decided application disappears from the queue on the resync that
// follows the decision; the status transition is the removal mechanism.
type SocietyDashboard struct {
	user *models.AuthenticatedUser

	weavers      *Loader[models.ProfileResponse]
	recentOrders *Loader[models.OrderResponse]
	reviewQueue  *Loader[models.ApplicationResponse]
	messages     *Loader[models.MessageResponse]

	applicationService *services.ApplicationService
	notifier           services.Notifier
}

// NewSocietyDashboard creates a society dashboard for the given staff user
func NewSocietyDashboard(user *models.AuthenticatedUser, profileService *services.ProfileService, orderService *services.OrderService, applicationService *services.ApplicationService, messageService *services.MessageService, notifier services.Notifier) *SocietyDashboard {
	return &SocietyDashboard{
		user: user,
		weavers: NewLoader("weavers", func(ctx context.Context) ([]models.ProfileResponse, error) {
			return profileService.ListWeavers(ctx)
		}),
		recentOrders: NewLoader("recent_orders", func(ctx context.Context) ([]models.OrderResponse, error) {
			return orderService.ListRecent(ctx, recentOrderLimit)
		}),
		reviewQueue: NewLoader("review_queue", func(ctx context.Context) ([]models.ApplicationResponse, error) {
			return applicationService.ReviewQueue(ctx)
		}),
		messages: NewLoader("messages", func(ctx context.Context) ([]models.MessageResponse, error) {
			return messageService.ListForUser(ctx, user.UserID, 20)
		}),
		applicationService: applicationService,
		notifier:           notifier,
	}
}

// Refresh re-loads every collection from the server
func (d *SocietyDashboard) Refresh(ctx context.Context) {
	d.weavers.Load(ctx)
	d.recentOrders.Load(ctx)
	d.reviewQueue.Load(ctx)
	d.messages.Load(ctx)
}

// Weavers returns the registered weaver profiles
func (d *SocietyDashboard) Weavers() []models.ProfileResponse {
	return d.weavers.Snapshot()
}

// RecentOrders returns the most recent orders across the marketplace
func (d *SocietyDashboard) RecentOrders() []models.OrderResponse {
	return d.recentOrders.Snapshot()
}

// ReviewQueue returns applications awaiting a decision
func (d *SocietyDashboard) ReviewQueue() []models.ApplicationResponse {
	return d.reviewQueue.Snapshot()
}

// Messages returns the staff member's recent messages
func (d *SocietyDashboard) Messages() []models.MessageResponse {
	return d.messages.Snapshot()
}

// ReviewApplication records a terminal decision on an application and,
// on success, re-loads the review queue; the decided item falls outside
// the queue's scope predicate and drops out of the next snapshot. Only
// reviewer roles may decide. On failure it emits one notification and
// leaves every snapshot untouched.
func (d *SocietyDashboard) ReviewApplication(ctx context.Context, applicationID string, req *models.ReviewApplicationRequest) (*models.ApplicationResponse, error) {
	if !d.user.HasAnyRole(models.ReviewerRoles...) {
		return nil, apierrors.ForbiddenError("Only reviewing roles can decide applications")
	}

	application, err := d.applicationService.Review(ctx, d.user.UserID, applicationID, req)
	if err != nil {
		monitoring.RecordBusinessEvent(ctx, "review_application", "failure")
		d.notifier.NotifyFailure(ctx, d.user.UserID, "review_application", err.Error())
		return nil, err
	}

	monitoring.RecordBusinessEvent(ctx, "review_application", "success")
	d.notifier.NotifySuccess(ctx, d.user.UserID, "review_application", application.ApplicationID)
	d.reviewQueue.Load(ctx)
	return application, nil
}

// View assembles the response payload from the current snapshots
func (d *SocietyDashboard) View() *models.SocietyDashboardResponse {
	return &models.SocietyDashboardResponse{
		Weavers:      d.Weavers(),
		RecentOrders: d.RecentOrders(),
		ReviewQueue:  d.ReviewQueue(),
		Messages:     d.Messages(),
	}
}
