package dashboard

import (
	"context"
	"fmt"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/v1/models"
	"github.com/hariram-suresh/loom-harmony/v1/services"
)

// Factory builds per-request dashboards over the shared services layer.
// Dashboards hold no cross-request state; each request gets fresh
// snapshots keyed by the authenticated user.
type Factory struct {
	sareeService       *services.SareeService
	orderService       *services.OrderService
	schemeService      *services.SchemeService
	applicationService *services.ApplicationService
	metricService      *services.MetricService
	messageService     *services.MessageService
	profileService     *services.ProfileService
	notifier           services.Notifier
}

// NewFactory creates a dashboard factory
func NewFactory(sareeService *services.SareeService, orderService *services.OrderService, schemeService *services.SchemeService, applicationService *services.ApplicationService, metricService *services.MetricService, messageService *services.MessageService, profileService *services.ProfileService, notifier services.Notifier) *Factory {
	return &Factory{
		sareeService:       sareeService,
		orderService:       orderService,
		schemeService:      schemeService,
		applicationService: applicationService,
		metricService:      metricService,
		messageService:     messageService,
		profileService:     profileService,
		notifier:           notifier,
	}
}

// ForBuyer builds the buyer dashboard
func (f *Factory) ForBuyer(user *models.AuthenticatedUser) *BuyerDashboard {
	return NewBuyerDashboard(user.UserID, f.sareeService, f.orderService, f.notifier)
}

// ForWeaver builds the weaver dashboard
func (f *Factory) ForWeaver(user *models.AuthenticatedUser) *WeaverDashboard {
	return NewWeaverDashboard(user.UserID, f.sareeService, f.orderService, f.schemeService, f.applicationService, f.metricService, f.notifier)
}

// ForSociety builds the shared society dashboard
func (f *Factory) ForSociety(user *models.AuthenticatedUser) *SocietyDashboard {
	return NewSocietyDashboard(user, f.profileService, f.orderService, f.applicationService, f.messageService, f.notifier)
}

// BuildView dispatches on the user's primary role and returns the
// refreshed dashboard payload for that role. Society-family roles share
// the society view. An unrecognized role is an explicit error, never a
// silent fallback to another role's view.
func (f *Factory) BuildView(ctx context.Context, user *models.AuthenticatedUser) (interface{}, error) {
	role := user.GetPrimaryRole()
	switch {
	case role == models.RoleBuyer:
		d := f.ForBuyer(user)
		d.Refresh(ctx)
		return d.View(), nil
	case role == models.RoleWeaver:
		d := f.ForWeaver(user)
		d.Refresh(ctx)
		return d.View(), nil
	case role.IsSocietyRole():
		d := f.ForSociety(user)
		d.Refresh(ctx)
		return d.View(), nil
	default:
		return nil, apierrors.ForbiddenError(fmt.Sprintf("No dashboard for role %q", role))
	}
}
