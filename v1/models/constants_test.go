package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	t.Run("HappyPathChain", func(t *testing.T) {
		assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
		assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusInProgress))
		assert.True(t, OrderStatusInProgress.CanTransitionTo(OrderStatusCompleted))
		assert.True(t, OrderStatusInProgress.CanTransitionTo(OrderStatusShipped))
		assert.True(t, OrderStatusCompleted.CanTransitionTo(OrderStatusDelivered))
		assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	})

	t.Run("NoSkippingAhead", func(t *testing.T) {
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusInProgress))
		assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusCompleted))
	})

	t.Run("NoMovingBackwards", func(t *testing.T) {
		assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPending))
		assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusShipped))
	})

	t.Run("CancellableFromEveryNonTerminalState", func(t *testing.T) {
		for _, status := range []OrderStatus{
			OrderStatusPending,
			OrderStatusConfirmed,
			OrderStatusInProgress,
			OrderStatusCompleted,
			OrderStatusShipped,
		} {
			assert.True(t, status.CanTransitionTo(OrderStatusCancelled), "from %s", status)
		}
	})

	t.Run("TerminalStatesAreFinal", func(t *testing.T) {
		assert.True(t, OrderStatusDelivered.IsTerminal())
		assert.True(t, OrderStatusCancelled.IsTerminal())
		assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
		assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	})

	t.Run("UnknownStatusHasNoTransitions", func(t *testing.T) {
		assert.False(t, OrderStatus("bogus").CanTransitionTo(OrderStatusPending))
	})
}

func TestSchemeStatus_CanTransitionTo(t *testing.T) {
	t.Run("ReviewLifecycle", func(t *testing.T) {
		assert.True(t, SchemeStatusDraft.CanTransitionTo(SchemeStatusSubmitted))
		assert.True(t, SchemeStatusSubmitted.CanTransitionTo(SchemeStatusUnderReview))
		assert.True(t, SchemeStatusUnderReview.CanTransitionTo(SchemeStatusApproved))
		assert.True(t, SchemeStatusUnderReview.CanTransitionTo(SchemeStatusRejected))
	})

	t.Run("SubmittedMayBeDecidedDirectly", func(t *testing.T) {
		assert.True(t, SchemeStatusSubmitted.CanTransitionTo(SchemeStatusApproved))
		assert.True(t, SchemeStatusSubmitted.CanTransitionTo(SchemeStatusRejected))
	})

	t.Run("DecisionsAreFinal", func(t *testing.T) {
		assert.True(t, SchemeStatusApproved.IsTerminal())
		assert.True(t, SchemeStatusRejected.IsTerminal())
		assert.False(t, SchemeStatusApproved.CanTransitionTo(SchemeStatusRejected))
		assert.False(t, SchemeStatusRejected.CanTransitionTo(SchemeStatusSubmitted))
	})

	t.Run("NoReversingSubmission", func(t *testing.T) {
		assert.False(t, SchemeStatusSubmitted.CanTransitionTo(SchemeStatusDraft))
		assert.False(t, SchemeStatusUnderReview.CanTransitionTo(SchemeStatusSubmitted))
	})
}

func TestReviewableSchemeStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]SchemeStatus{SchemeStatusSubmitted, SchemeStatusUnderReview},
		ReviewableSchemeStatuses)

	for _, status := range ReviewableSchemeStatuses {
		assert.False(t, status.IsTerminal())
	}
}

func TestParseRole(t *testing.T) {
	t.Run("KnownRoles", func(t *testing.T) {
		for _, raw := range []string{
			"weaver", "buyer", "society_admin",
			"department_employee", "district_head", "handloom_head",
		} {
			role, err := ParseRole(raw)
			assert.NoError(t, err)
			assert.Equal(t, raw, role.String())
		}
	})

	t.Run("UnknownRole_Error", func(t *testing.T) {
		_, err := ParseRole("admin")
		assert.Error(t, err)

		_, err = ParseRole("")
		assert.Error(t, err)
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		_, err := ParseRole("Weaver")
		assert.Error(t, err)
	})
}

func TestRole_IsSocietyRole(t *testing.T) {
	for _, role := range SocietyRoles {
		assert.True(t, role.IsSocietyRole(), "%s", role)
	}
	assert.False(t, RoleWeaver.IsSocietyRole())
	assert.False(t, RoleBuyer.IsSocietyRole())
	assert.False(t, Role("").IsSocietyRole())
}
