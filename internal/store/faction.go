package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

var factionChildTables = []string{
	"faction_resources",
	"faction_leaders",
	"faction_members",
	"faction_allies",
	"faction_enemies",
	"faction_quests",
}

// FactionMapper maps Faction aggregates onto the faction tables.
type FactionMapper struct {
	s *Store
}

// Create writes f and all of its collections in one unit of work.
// Each leader's hidden flag is derived from its role.
func (m *FactionMapper) Create(ctx context.Context, f campaign.Faction) error {
	return m.s.withUnitOfWork(ctx, "create faction", func(uow *UnitOfWork) error {
		_, err := uow.ExecContext(ctx, `
			INSERT INTO factions
			(id, name, type, alignment, description, public_goal, true_goal, headquarters, territory, history, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			f.ID,
			f.Name,
			f.Type,
			f.Alignment,
			f.Description,
			f.PublicGoal,
			f.TrueGoal,
			f.Headquarters,
			f.Territory,
			f.History,
			f.Notes,
		)
		if err != nil {
			return fmt.Errorf("create faction %s: %w", f.ID, err)
		}
		if err := insertFactionChildren(ctx, uow, f); err != nil {
			return fmt.Errorf("create faction %s: %w", f.ID, err)
		}
		return nil
	})
}

// Update overwrites the scalar attributes of f and replaces every collection.
// Returns ErrNotFound if no faction has f.ID.
func (m *FactionMapper) Update(ctx context.Context, f campaign.Faction) error {
	return m.s.withUnitOfWork(ctx, "update faction", func(uow *UnitOfWork) error {
		err := execOne(ctx, uow, `
			UPDATE factions SET name = ?, type = ?, alignment = ?, description = ?, public_goal = ?,
				true_goal = ?, headquarters = ?, territory = ?, history = ?, notes = ?
			WHERE id = ?
		`,
			f.Name,
			f.Type,
			f.Alignment,
			f.Description,
			f.PublicGoal,
			f.TrueGoal,
			f.Headquarters,
			f.Territory,
			f.History,
			f.Notes,
			f.ID,
		)
		if err != nil {
			return fmt.Errorf("update faction %s: %w", f.ID, err)
		}
		if err := deleteFrom(ctx, uow, "faction_id", f.ID, factionChildTables...); err != nil {
			return fmt.Errorf("update faction %s: %w", f.ID, err)
		}
		if err := insertFactionChildren(ctx, uow, f); err != nil {
			return fmt.Errorf("update faction %s: %w", f.ID, err)
		}
		return nil
	})
}

// Delete removes the faction and every row it owns. Locations it controlled
// keep existing with no controlling faction.
func (m *FactionMapper) Delete(ctx context.Context, id string) error {
	return m.s.withUnitOfWork(ctx, "delete faction", func(uow *UnitOfWork) error {
		if err := deleteFrom(ctx, uow, "faction_id", id, factionChildTables...); err != nil {
			return fmt.Errorf("delete faction %s: %w", id, err)
		}
		if err := deleteFrom(ctx, uow, "id", id, "factions"); err != nil {
			return fmt.Errorf("delete faction %s: %w", id, err)
		}
		return nil
	})
}

// List returns every faction id in ascending order.
func (m *FactionMapper) List(ctx context.Context) ([]string, error) {
	ids, err := m.s.queryStrings(ctx, `SELECT id FROM factions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list factions: %w", err)
	}
	return ids, nil
}

// Get reads the faction with the given id. Returns nil and no error when absent.
func (m *FactionMapper) Get(ctx context.Context, id string) (*campaign.Faction, error) {
	var out *campaign.Faction
	err := m.s.withConn(func(db dbtx) error {
		var err error
		out, err = readFaction(ctx, db, id)
		return err
	})
	if errors.Is(err, ErrUnitOfWorkOpen) {
		return nil, fmt.Errorf("get faction %s: %w", id, err)
	}
	return out, err
}

func readFaction(ctx context.Context, db dbtx, id string) (*campaign.Faction, error) {
	f := campaign.Faction{}

	err := db.QueryRowContext(ctx, `
		SELECT id, name, type, alignment, description, public_goal, true_goal,
			headquarters, territory, history, notes
		FROM factions WHERE id = ?
	`, id).Scan(
		&f.ID, &f.Name, &f.Type, &f.Alignment, &f.Description, &f.PublicGoal,
		&f.TrueGoal, &f.Headquarters, &f.Territory, &f.History, &f.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get faction %s: %w", id, err)
	}

	if f.Resources, err = queryStrings(ctx, db,
		`SELECT resource FROM faction_resources WHERE faction_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("get faction %s: resources: %w", id, err)
	}
	if f.Leaders, err = readLeaders(ctx, db, id); err != nil {
		return nil, fmt.Errorf("get faction %s: leaders: %w", id, err)
	}
	if f.Members, err = readMembers(ctx, db, id); err != nil {
		return nil, fmt.Errorf("get faction %s: members: %w", id, err)
	}
	if f.Allies, err = queryStrings(ctx, db,
		`SELECT ally_id FROM faction_allies WHERE faction_id = ? ORDER BY ally_id`, id); err != nil {
		return nil, fmt.Errorf("get faction %s: allies: %w", id, err)
	}
	if f.Enemies, err = queryStrings(ctx, db,
		`SELECT enemy_id FROM faction_enemies WHERE faction_id = ? ORDER BY enemy_id`, id); err != nil {
		return nil, fmt.Errorf("get faction %s: enemies: %w", id, err)
	}
	if f.Quests, err = queryStrings(ctx, db,
		`SELECT quest_id FROM faction_quests WHERE faction_id = ? ORDER BY quest_id`, id); err != nil {
		return nil, fmt.Errorf("get faction %s: quests: %w", id, err)
	}

	return &f, nil
}

func insertFactionChildren(ctx context.Context, tx dbtx, f campaign.Faction) error {
	for i, r := range f.Resources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO faction_resources (faction_id, position, resource) VALUES (?, ?, ?)`,
			f.ID, i, r); err != nil {
			return fmt.Errorf("resource %d: %w", i, err)
		}
	}

	for _, l := range f.Leaders {
		if err := insertLeader(ctx, tx, f.ID, l); err != nil {
			return err
		}
	}

	for _, mem := range f.Members {
		if err := insertMember(ctx, tx, f.ID, mem); err != nil {
			return err
		}
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO faction_allies (faction_id, ally_id) VALUES (?, ?)`,
		[]any{f.ID}, f.Allies); err != nil {
		return fmt.Errorf("allies: %w", err)
	}
	if err := insertStrings(ctx, tx,
		`INSERT INTO faction_enemies (faction_id, enemy_id) VALUES (?, ?)`,
		[]any{f.ID}, f.Enemies); err != nil {
		return fmt.Errorf("enemies: %w", err)
	}
	if err := insertStrings(ctx, tx,
		`INSERT INTO faction_quests (faction_id, quest_id) VALUES (?, ?)`,
		[]any{f.ID}, f.Quests); err != nil {
		return fmt.Errorf("quests: %w", err)
	}

	return nil
}

// insertLeader writes one leader row. The hidden flag comes from the role
// text; l.Hidden is ignored.
func insertLeader(ctx context.Context, tx dbtx, factionID string, l campaign.Leader) error {
	stats, err := encodeStats(l.Stats)
	if err != nil {
		return fmt.Errorf("leader %q: %w", l.Name, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO faction_leaders
		(faction_id, name, role, description, secret, stats, bio, is_hidden)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		factionID,
		l.Name,
		l.Role,
		l.Description,
		l.Secret,
		stats,
		l.Bio,
		campaign.IsHiddenRole(l.Role),
	)
	if err != nil {
		return fmt.Errorf("leader %q: %w", l.Name, err)
	}
	return nil
}

func insertMember(ctx context.Context, tx dbtx, factionID string, mem campaign.Member) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO faction_members (faction_id, name, role, description) VALUES (?, ?, ?, ?)
	`, factionID, mem.Name, mem.Role, mem.Description)
	if err != nil {
		return fmt.Errorf("member %q: %w", mem.Name, err)
	}
	return nil
}

func readLeaders(ctx context.Context, db dbtx, factionID string) ([]campaign.Leader, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, role, description, secret, stats, bio, is_hidden
		FROM faction_leaders WHERE faction_id = ? ORDER BY name
	`, factionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaders []campaign.Leader
	for rows.Next() {
		var l campaign.Leader
		var stats string
		if err := rows.Scan(&l.Name, &l.Role, &l.Description, &l.Secret, &stats, &l.Bio, &l.Hidden); err != nil {
			return nil, err
		}
		if l.Stats, err = decodeStats(stats); err != nil {
			return nil, fmt.Errorf("leader %q: %w", l.Name, err)
		}
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaders, nil
}

func readMembers(ctx context.Context, db dbtx, factionID string) ([]campaign.Member, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, role, description FROM faction_members WHERE faction_id = ? ORDER BY name
	`, factionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []campaign.Member
	for rows.Next() {
		var mem campaign.Member
		if err := rows.Scan(&mem.Name, &mem.Role, &mem.Description); err != nil {
			return nil, err
		}
		members = append(members, mem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
