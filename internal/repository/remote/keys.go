// Package remote implements the domain repositories on top of the planner API,
// caching reads and invalidating them after writes.
package remote

import "github.com/dafibh/planner/planner-web/internal/cache"

// Cache key names. Detail keys are IDKey(name, id).
const (
	simulationsKey = "simulations"
	simulationKey  = "simulation"
	projectionKey  = "projection"
	timelineKey    = "timeline"
	versionsKey    = "simulation-versions"
	allocationsKey = "allocations"
	allocationKey  = "allocation"
	insurancesKey  = "insurances"
	insuranceKey   = "insurance"
	movementsKey   = "movements"
	movementKey    = "movement"
)

// childWriteKeys are the entries a child write affects beyond its own: the
// owning simulation detail and everything the dashboard derives from.
func childWriteKeys(listKey, detailKey string, id int64) []string {
	keys := []string{listKey, simulationKey, projectionKey, timelineKey}
	if id > 0 {
		keys = append(keys, cache.IDKey(detailKey, id))
	}
	return keys
}
