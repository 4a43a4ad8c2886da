package tracking

import "bustracker-backend/internal/models"

// GroupRouteRows folds the flat search join into one entry per route with its
// active rides embedded. Row order is preserved, so results stay ordered by
// route name and rides stay newest-first within a route.
func GroupRouteRows(rows []models.RouteActiveRideRow) []models.RouteWithActiveRides {
	routes := []models.RouteWithActiveRides{}
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.RouteID]
		if !ok {
			routes = append(routes, models.RouteWithActiveRides{
				ID:                       row.RouteID,
				Name:                     row.RouteName,
				Description:              row.RouteDescription,
				StartLocation:            row.StartLocation,
				EndLocation:              row.EndLocation,
				EstimatedDurationMinutes: row.EstimatedDurationMinutes,
				DriverName:               row.DriverName,
				ActiveRides:              []models.ActiveRideSummary{},
			})
			i = len(routes) - 1
			index[row.RouteID] = i
		}

		routes[i].ActiveRides = append(routes[i].ActiveRides, models.ActiveRideSummary{
			ID:        row.RideID,
			StartedAt: row.StartedAt,
		})
	}

	return routes
}
