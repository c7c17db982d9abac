package store

import (
	"context"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

// AddFeature adds a notable feature.
func (m *LocationMapper) AddFeature(ctx context.Context, locationID, feature string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO location_features (location_id, feature) VALUES (?, ?)`, locationID, feature)
	if err != nil {
		return fmt.Errorf("add feature to location %s: %w", locationID, err)
	}
	return nil
}

// RemoveFeature removes a notable feature.
func (m *LocationMapper) RemoveFeature(ctx context.Context, locationID, feature string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_features WHERE location_id = ? AND feature = ?`, locationID, feature)
	if err != nil {
		return fmt.Errorf("remove feature from location %s: %w", locationID, err)
	}
	return nil
}

// AddPointOfInterest adds a named point of interest.
func (m *LocationMapper) AddPointOfInterest(ctx context.Context, locationID string, p campaign.PointOfInterest) error {
	if err := m.s.withConn(func(db dbtx) error {
		return insertPointOfInterest(ctx, db, locationID, p)
	}); err != nil {
		return fmt.Errorf("add to location %s: %w", locationID, err)
	}
	return nil
}

// RemovePointOfInterest removes the point of interest with the given name.
func (m *LocationMapper) RemovePointOfInterest(ctx context.Context, locationID, name string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_points_of_interest WHERE location_id = ? AND name = ?`, locationID, name)
	if err != nil {
		return fmt.Errorf("remove point of interest from location %s: %w", locationID, err)
	}
	return nil
}

// AddDistrict adds a district with its features and NPC ids in one unit of work.
func (m *LocationMapper) AddDistrict(ctx context.Context, locationID, districtID string, d campaign.District) error {
	return m.s.withUnitOfWork(ctx, "add district", func(uow *UnitOfWork) error {
		if err := insertDistrict(ctx, uow, locationID, districtID, d); err != nil {
			return fmt.Errorf("add to location %s: %w", locationID, err)
		}
		return nil
	})
}

// RemoveDistrict removes a district; its features and NPC ids cascade.
func (m *LocationMapper) RemoveDistrict(ctx context.Context, locationID, districtID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_districts WHERE location_id = ? AND district_id = ?`, locationID, districtID)
	if err != nil {
		return fmt.Errorf("remove district %q from location %s: %w", districtID, locationID, err)
	}
	return nil
}

// AddArea adds an area with all of its sets in one unit of work.
func (m *LocationMapper) AddArea(ctx context.Context, locationID, areaID string, a campaign.Area) error {
	return m.s.withUnitOfWork(ctx, "add area", func(uow *UnitOfWork) error {
		if err := insertArea(ctx, uow, locationID, areaID, a); err != nil {
			return fmt.Errorf("add to location %s: %w", locationID, err)
		}
		return nil
	})
}

// RemoveArea removes an area; its sets cascade.
func (m *LocationMapper) RemoveArea(ctx context.Context, locationID, areaID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_areas WHERE location_id = ? AND area_id = ?`, locationID, areaID)
	if err != nil {
		return fmt.Errorf("remove area %q from location %s: %w", areaID, locationID, err)
	}
	return nil
}

// AddNPC records an NPC present at the location.
func (m *LocationMapper) AddNPC(ctx context.Context, locationID, npcID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO location_npcs (location_id, npc_id) VALUES (?, ?)`, locationID, npcID)
	if err != nil {
		return fmt.Errorf("add npc to location %s: %w", locationID, err)
	}
	return nil
}

// RemoveNPC drops an NPC from the location.
func (m *LocationMapper) RemoveNPC(ctx context.Context, locationID, npcID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_npcs WHERE location_id = ? AND npc_id = ?`, locationID, npcID)
	if err != nil {
		return fmt.Errorf("remove npc from location %s: %w", locationID, err)
	}
	return nil
}

// AddFaction records a faction present at the location.
func (m *LocationMapper) AddFaction(ctx context.Context, locationID, factionID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO location_factions (location_id, faction_id) VALUES (?, ?)`, locationID, factionID)
	if err != nil {
		return fmt.Errorf("add faction to location %s: %w", locationID, err)
	}
	return nil
}

// RemoveFaction drops a faction from the location.
func (m *LocationMapper) RemoveFaction(ctx context.Context, locationID, factionID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_factions WHERE location_id = ? AND faction_id = ?`, locationID, factionID)
	if err != nil {
		return fmt.Errorf("remove faction from location %s: %w", locationID, err)
	}
	return nil
}

// AddConnection records a route to another location.
func (m *LocationMapper) AddConnection(ctx context.Context, locationID, connectedID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO location_connections (location_id, connected_id) VALUES (?, ?)`, locationID, connectedID)
	if err != nil {
		return fmt.Errorf("add connection to location %s: %w", locationID, err)
	}
	return nil
}

// RemoveConnection drops a route to another location.
func (m *LocationMapper) RemoveConnection(ctx context.Context, locationID, connectedID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM location_connections WHERE location_id = ? AND connected_id = ?`, locationID, connectedID)
	if err != nil {
		return fmt.Errorf("remove connection from location %s: %w", locationID, err)
	}
	return nil
}
