package client

import (
	"context"
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/domain"
)

// CreateSimulationVersion snapshots simulation id
func (c *Client) CreateSimulationVersion(ctx context.Context, id int64, input *domain.VersionInput) (*domain.SimulationVersion, error) {
	var version domain.SimulationVersion
	if err := c.Post(ctx, fmt.Sprintf("/simulations/%d/version", id), input, &version); err != nil {
		return nil, err
	}
	if version.SimulationID == 0 {
		version.SimulationID = id
	}
	return &version, nil
}

// GetSimulationVersions lists the snapshots of simulation id in API order
func (c *Client) GetSimulationVersions(ctx context.Context, id int64) ([]domain.SimulationVersion, error) {
	var versions []domain.SimulationVersion
	if err := c.Get(ctx, fmt.Sprintf("/simulations/%d/versions", id), &versions); err != nil {
		return nil, err
	}
	return versions, nil
}
