package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

// locationChildTables lists every table owned by a location. District and
// area children precede the district and area rows themselves.
var locationChildTables = []string{
	"location_features",
	"location_points_of_interest",
	"location_district_features",
	"location_district_npcs",
	"location_districts",
	"location_area_features",
	"location_area_encounters",
	"location_area_treasures",
	"location_area_npcs",
	"location_areas",
	"location_npcs",
	"location_factions",
	"location_connections",
}

// LocationMapper maps Location aggregates onto the location tables.
type LocationMapper struct {
	s *Store
}

// Create writes loc and all of its collections in one unit of work.
// A non-empty ControllingFaction must name an existing faction.
func (m *LocationMapper) Create(ctx context.Context, loc campaign.Location) error {
	return m.s.withUnitOfWork(ctx, "create location", func(uow *UnitOfWork) error {
		_, err := uow.ExecContext(ctx, `
			INSERT INTO locations
			(id, name, type, region, description, history, danger_level, controlling_faction_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			loc.ID,
			loc.Name,
			loc.Type,
			loc.Region,
			loc.Description,
			loc.History,
			loc.DangerLevel,
			nullString(loc.ControllingFaction),
		)
		if err != nil {
			return fmt.Errorf("create location %s: %w", loc.ID, err)
		}
		if err := insertLocationChildren(ctx, uow, loc); err != nil {
			return fmt.Errorf("create location %s: %w", loc.ID, err)
		}
		return nil
	})
}

// Update overwrites the scalar attributes of loc and replaces every
// collection, districts and areas included. Returns ErrNotFound if no
// location has loc.ID.
func (m *LocationMapper) Update(ctx context.Context, loc campaign.Location) error {
	return m.s.withUnitOfWork(ctx, "update location", func(uow *UnitOfWork) error {
		err := execOne(ctx, uow, `
			UPDATE locations SET name = ?, type = ?, region = ?, description = ?, history = ?,
				danger_level = ?, controlling_faction_id = ?
			WHERE id = ?
		`,
			loc.Name,
			loc.Type,
			loc.Region,
			loc.Description,
			loc.History,
			loc.DangerLevel,
			nullString(loc.ControllingFaction),
			loc.ID,
		)
		if err != nil {
			return fmt.Errorf("update location %s: %w", loc.ID, err)
		}
		if err := deleteFrom(ctx, uow, "location_id", loc.ID, locationChildTables...); err != nil {
			return fmt.Errorf("update location %s: %w", loc.ID, err)
		}
		if err := insertLocationChildren(ctx, uow, loc); err != nil {
			return fmt.Errorf("update location %s: %w", loc.ID, err)
		}
		return nil
	})
}

// Delete removes the location and every row it owns, districts and areas
// after their own children.
func (m *LocationMapper) Delete(ctx context.Context, id string) error {
	return m.s.withUnitOfWork(ctx, "delete location", func(uow *UnitOfWork) error {
		if err := deleteFrom(ctx, uow, "location_id", id, locationChildTables...); err != nil {
			return fmt.Errorf("delete location %s: %w", id, err)
		}
		if err := deleteFrom(ctx, uow, "id", id, "locations"); err != nil {
			return fmt.Errorf("delete location %s: %w", id, err)
		}
		return nil
	})
}

// List returns every location id in ascending order.
func (m *LocationMapper) List(ctx context.Context) ([]string, error) {
	ids, err := m.s.queryStrings(ctx, `SELECT id FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return ids, nil
}

// Get reads the location with the given id. Returns nil and no error when
// absent.
func (m *LocationMapper) Get(ctx context.Context, id string) (*campaign.Location, error) {
	var out *campaign.Location
	err := m.s.withConn(func(db dbtx) error {
		var err error
		out, err = readLocation(ctx, db, id)
		return err
	})
	if errors.Is(err, ErrUnitOfWorkOpen) {
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	return out, err
}

func readLocation(ctx context.Context, db dbtx, id string) (*campaign.Location, error) {
	loc := campaign.Location{}
	var controlling sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, name, type, region, description, history, danger_level, controlling_faction_id
		FROM locations WHERE id = ?
	`, id).Scan(
		&loc.ID, &loc.Name, &loc.Type, &loc.Region, &loc.Description,
		&loc.History, &loc.DangerLevel, &controlling,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	loc.ControllingFaction = controlling.String

	if loc.Features, err = queryStrings(ctx, db,
		`SELECT feature FROM location_features WHERE location_id = ? ORDER BY feature`, id); err != nil {
		return nil, fmt.Errorf("get location %s: features: %w", id, err)
	}

	pois, err := readDescribedLinks(ctx, db,
		`SELECT name, description FROM location_points_of_interest WHERE location_id = ? ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("get location %s: points of interest: %w", id, err)
	}
	for _, p := range pois {
		loc.PointsOfInterest = append(loc.PointsOfInterest, campaign.PointOfInterest{Name: p.id, Description: p.description})
	}

	if loc.Districts, err = readDistricts(ctx, db, id); err != nil {
		return nil, fmt.Errorf("get location %s: districts: %w", id, err)
	}
	if loc.Areas, err = readAreas(ctx, db, id); err != nil {
		return nil, fmt.Errorf("get location %s: areas: %w", id, err)
	}

	if loc.NPCs, err = queryStrings(ctx, db,
		`SELECT npc_id FROM location_npcs WHERE location_id = ? ORDER BY npc_id`, id); err != nil {
		return nil, fmt.Errorf("get location %s: npcs: %w", id, err)
	}
	if loc.Factions, err = queryStrings(ctx, db,
		`SELECT faction_id FROM location_factions WHERE location_id = ? ORDER BY faction_id`, id); err != nil {
		return nil, fmt.Errorf("get location %s: factions: %w", id, err)
	}
	if loc.Connections, err = queryStrings(ctx, db,
		`SELECT connected_id FROM location_connections WHERE location_id = ? ORDER BY connected_id`, id); err != nil {
		return nil, fmt.Errorf("get location %s: connections: %w", id, err)
	}

	return &loc, nil
}

func insertLocationChildren(ctx context.Context, tx dbtx, loc campaign.Location) error {
	if err := insertStrings(ctx, tx,
		`INSERT INTO location_features (location_id, feature) VALUES (?, ?)`,
		[]any{loc.ID}, loc.Features); err != nil {
		return fmt.Errorf("features: %w", err)
	}

	for _, p := range loc.PointsOfInterest {
		if err := insertPointOfInterest(ctx, tx, loc.ID, p); err != nil {
			return err
		}
	}

	for _, districtID := range sortedKeys(loc.Districts) {
		if err := insertDistrict(ctx, tx, loc.ID, districtID, loc.Districts[districtID]); err != nil {
			return err
		}
	}

	for _, areaID := range sortedKeys(loc.Areas) {
		if err := insertArea(ctx, tx, loc.ID, areaID, loc.Areas[areaID]); err != nil {
			return err
		}
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO location_npcs (location_id, npc_id) VALUES (?, ?)`,
		[]any{loc.ID}, loc.NPCs); err != nil {
		return fmt.Errorf("npcs: %w", err)
	}
	if err := insertStrings(ctx, tx,
		`INSERT INTO location_factions (location_id, faction_id) VALUES (?, ?)`,
		[]any{loc.ID}, loc.Factions); err != nil {
		return fmt.Errorf("factions: %w", err)
	}
	if err := insertStrings(ctx, tx,
		`INSERT INTO location_connections (location_id, connected_id) VALUES (?, ?)`,
		[]any{loc.ID}, loc.Connections); err != nil {
		return fmt.Errorf("connections: %w", err)
	}

	return nil
}

func insertPointOfInterest(ctx context.Context, tx dbtx, locationID string, p campaign.PointOfInterest) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO location_points_of_interest (location_id, name, description) VALUES (?, ?, ?)
	`, locationID, p.Name, p.Description)
	if err != nil {
		return fmt.Errorf("point of interest %q: %w", p.Name, err)
	}
	return nil
}

// insertDistrict writes the district row, then its features and NPC ids.
// Set values must survive GROUP_CONCAT folding; see checkGrouped.
func insertDistrict(ctx context.Context, tx dbtx, locationID, districtID string, d campaign.District) error {
	for _, set := range [][]string{d.Features, d.NPCs} {
		if err := checkGrouped(set); err != nil {
			return fmt.Errorf("district %q: %w", districtID, err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO location_districts (location_id, district_id, name, description) VALUES (?, ?, ?, ?)
	`, locationID, districtID, d.Name, d.Description)
	if err != nil {
		return fmt.Errorf("district %q: %w", districtID, err)
	}

	key := []any{locationID, districtID}
	if err := insertStrings(ctx, tx,
		`INSERT INTO location_district_features (location_id, district_id, feature) VALUES (?, ?, ?)`,
		key, d.Features); err != nil {
		return fmt.Errorf("district %q features: %w", districtID, err)
	}
	if err := insertStrings(ctx, tx,
		`INSERT INTO location_district_npcs (location_id, district_id, npc_id) VALUES (?, ?, ?)`,
		key, d.NPCs); err != nil {
		return fmt.Errorf("district %q npcs: %w", districtID, err)
	}
	return nil
}

// insertArea writes the area row, then its features, encounters, treasures
// and NPC ids.
func insertArea(ctx context.Context, tx dbtx, locationID, areaID string, a campaign.Area) error {
	for _, set := range [][]string{a.Features, a.Encounters, a.Treasures, a.NPCs} {
		if err := checkGrouped(set); err != nil {
			return fmt.Errorf("area %q: %w", areaID, err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO location_areas (location_id, area_id, name, description) VALUES (?, ?, ?, ?)
	`, locationID, areaID, a.Name, a.Description)
	if err != nil {
		return fmt.Errorf("area %q: %w", areaID, err)
	}

	key := []any{locationID, areaID}
	sets := []struct {
		name   string
		query  string
		values []string
	}{
		{"features", `INSERT INTO location_area_features (location_id, area_id, feature) VALUES (?, ?, ?)`, a.Features},
		{"encounters", `INSERT INTO location_area_encounters (location_id, area_id, encounter) VALUES (?, ?, ?)`, a.Encounters},
		{"treasures", `INSERT INTO location_area_treasures (location_id, area_id, treasure) VALUES (?, ?, ?)`, a.Treasures},
		{"npcs", `INSERT INTO location_area_npcs (location_id, area_id, npc_id) VALUES (?, ?, ?)`, a.NPCs},
	}
	for _, set := range sets {
		if err := insertStrings(ctx, tx, set.query, key, set.values); err != nil {
			return fmt.Errorf("area %q %s: %w", areaID, set.name, err)
		}
	}
	return nil
}

// readDistricts fetches every district with its features and NPC ids in one
// query; the child sets arrive GROUP_CONCAT-folded and are split here.
func readDistricts(ctx context.Context, db dbtx, locationID string) (map[string]campaign.District, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT d.district_id, d.name, d.description,
			(SELECT GROUP_CONCAT(f.feature, char(31)) FROM location_district_features f
				WHERE f.location_id = d.location_id AND f.district_id = d.district_id),
			(SELECT GROUP_CONCAT(n.npc_id, char(31)) FROM location_district_npcs n
				WHERE n.location_id = d.location_id AND n.district_id = d.district_id)
		FROM location_districts d
		WHERE d.location_id = ?
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var districts map[string]campaign.District
	for rows.Next() {
		var id string
		var d campaign.District
		var features, npcs sql.NullString
		if err := rows.Scan(&id, &d.Name, &d.Description, &features, &npcs); err != nil {
			return nil, err
		}
		d.Features = splitConcat(features)
		d.NPCs = splitConcat(npcs)
		if districts == nil {
			districts = make(map[string]campaign.District)
		}
		districts[id] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return districts, nil
}

// readAreas is readDistricts for areas.
func readAreas(ctx context.Context, db dbtx, locationID string) (map[string]campaign.Area, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT a.area_id, a.name, a.description,
			(SELECT GROUP_CONCAT(x.feature, char(31)) FROM location_area_features x
				WHERE x.location_id = a.location_id AND x.area_id = a.area_id),
			(SELECT GROUP_CONCAT(x.encounter, char(31)) FROM location_area_encounters x
				WHERE x.location_id = a.location_id AND x.area_id = a.area_id),
			(SELECT GROUP_CONCAT(x.treasure, char(31)) FROM location_area_treasures x
				WHERE x.location_id = a.location_id AND x.area_id = a.area_id),
			(SELECT GROUP_CONCAT(x.npc_id, char(31)) FROM location_area_npcs x
				WHERE x.location_id = a.location_id AND x.area_id = a.area_id)
		FROM location_areas a
		WHERE a.location_id = ?
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas map[string]campaign.Area
	for rows.Next() {
		var id string
		var a campaign.Area
		var features, encounters, treasures, npcs sql.NullString
		if err := rows.Scan(&id, &a.Name, &a.Description, &features, &encounters, &treasures, &npcs); err != nil {
			return nil, err
		}
		a.Features = splitConcat(features)
		a.Encounters = splitConcat(encounters)
		a.Treasures = splitConcat(treasures)
		a.NPCs = splitConcat(npcs)
		if areas == nil {
			areas = make(map[string]campaign.Area)
		}
		areas[id] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return areas, nil
}
