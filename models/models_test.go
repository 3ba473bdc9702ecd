package models_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/stretchr/testify/require"
)

func TestRoleMembership(t *testing.T) {
	require.True(t, models.RoleAdmin.Valid())
	require.False(t, models.Role("OWNER").Valid())

	allowed := []models.Role{models.RoleAdmin, models.RoleManager}
	require.True(t, models.RoleManager.In(allowed))
	require.False(t, models.RoleStaff.In(allowed))
	require.False(t, models.RoleStaff.In(nil))
}

func TestRoleWireValues(t *testing.T) {
	require.Equal(t, models.Role("ADMIN"), models.RoleAdmin)
	require.Equal(t, models.Role("WAREHOUSE_MANAGER"), models.RoleManager)
	require.Equal(t, models.Role("STAFF"), models.RoleStaff)
	require.False(t, models.Role("MANAGER").Valid())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := models.ParseOrderStatus(" shipped ")
	require.NoError(t, err)
	require.Equal(t, models.OrderShipped, status)

	_, err = models.ParseOrderStatus("LOST")
	require.Error(t, err)
}

func TestErrorResponseText(t *testing.T) {
	require.Equal(t, "Bad credentials", models.ErrorResponse{Message: "Bad credentials"}.Text())
	require.Equal(t, "Unauthorized", models.ErrorResponse{Error: "Unauthorized"}.Text())
	require.Empty(t, models.ErrorResponse{}.Text())
}

func TestOrderTrackingSteps(t *testing.T) {
	var tracking models.OrderTrackingResponse
	require.Empty(t, tracking.Current())
	require.Empty(t, tracking.Steps())

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tracking.Mark(models.OrderCreated, start)
	tracking.Mark(models.OrderConfirmed, start.Add(time.Hour))
	require.Equal(t, models.OrderConfirmed, tracking.Current())

	tracking.Mark(models.OrderCancelled, start.Add(2*time.Hour))
	require.Equal(t, models.OrderCancelled, tracking.Current())
	require.Equal(t, []models.TrackingStep{
		{Status: models.OrderCreated, At: start},
		{Status: models.OrderConfirmed, At: start.Add(time.Hour)},
		{Status: models.OrderCancelled, At: start.Add(2 * time.Hour)},
	}, tracking.Steps())

	tracking.Mark(models.OrderStatus("LOST"), start)
	require.Len(t, tracking.Steps(), 3)
}
