package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustracker-backend/internal/models"
)

func TestGroupRouteRowsGroupsRidesPerRoute(t *testing.T) {
	desc := "express service"
	rows := []models.RouteActiveRideRow{
		{RouteID: "r1", RouteName: "Airport Line", RouteDescription: &desc, StartLocation: "Central Station", EndLocation: "Airport", DriverName: "Alice", RideID: "ride-2", StartedAt: 200},
		{RouteID: "r1", RouteName: "Airport Line", RouteDescription: &desc, StartLocation: "Central Station", EndLocation: "Airport", DriverName: "Alice", RideID: "ride-1", StartedAt: 100},
		{RouteID: "r2", RouteName: "Downtown Express", StartLocation: "Central Station", EndLocation: "Business District", DriverName: "Bob", RideID: "ride-3", StartedAt: 150},
	}

	routes := GroupRouteRows(rows)

	require.Len(t, routes, 2)

	assert.Equal(t, "Airport Line", routes[0].Name)
	assert.Equal(t, "Alice", routes[0].DriverName)
	require.Len(t, routes[0].ActiveRides, 2)
	// Rides keep the newest-first row order within a route
	assert.Equal(t, "ride-2", routes[0].ActiveRides[0].ID)
	assert.Equal(t, "ride-1", routes[0].ActiveRides[1].ID)

	assert.Equal(t, "Downtown Express", routes[1].Name)
	assert.Nil(t, routes[1].Description)
	require.Len(t, routes[1].ActiveRides, 1)
	assert.Equal(t, "ride-3", routes[1].ActiveRides[0].ID)
}

func TestGroupRouteRowsEmpty(t *testing.T) {
	routes := GroupRouteRows(nil)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}
