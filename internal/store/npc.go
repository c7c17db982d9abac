package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

var npcChildTables = []string{
	"npc_descriptions",
	"npc_traits",
	"npc_quests",
	"npc_relationships",
	"npc_locations",
	"npc_items",
}

// NPCMapper maps NPC aggregates onto the npc tables.
type NPCMapper struct {
	s *Store
}

// Create writes n and all of its collections in one unit of work.
func (m *NPCMapper) Create(ctx context.Context, n campaign.NPC) error {
	return m.s.withUnitOfWork(ctx, "create npc", func(uow *UnitOfWork) error {
		stats, err := encodeStats(n.Stats)
		if err != nil {
			return fmt.Errorf("create npc %s: %w", n.ID, err)
		}
		_, err = uow.ExecContext(ctx, `
			INSERT INTO npcs
			(id, name, race, gender, occupation, role, quirk, background, motivation, secret, stats)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			n.ID,
			n.Name,
			n.Race,
			n.Gender,
			n.Occupation,
			n.Role,
			n.Quirk,
			n.Background,
			n.Motivation,
			n.Secret,
			stats,
		)
		if err != nil {
			return fmt.Errorf("create npc %s: %w", n.ID, err)
		}
		if err := insertNPCChildren(ctx, uow, n); err != nil {
			return fmt.Errorf("create npc %s: %w", n.ID, err)
		}
		return nil
	})
}

// Update overwrites the scalar attributes of n and replaces every collection.
// Returns ErrNotFound if no NPC has n.ID.
func (m *NPCMapper) Update(ctx context.Context, n campaign.NPC) error {
	return m.s.withUnitOfWork(ctx, "update npc", func(uow *UnitOfWork) error {
		stats, err := encodeStats(n.Stats)
		if err != nil {
			return fmt.Errorf("update npc %s: %w", n.ID, err)
		}
		err = execOne(ctx, uow, `
			UPDATE npcs SET name = ?, race = ?, gender = ?, occupation = ?, role = ?,
				quirk = ?, background = ?, motivation = ?, secret = ?, stats = ?
			WHERE id = ?
		`,
			n.Name,
			n.Race,
			n.Gender,
			n.Occupation,
			n.Role,
			n.Quirk,
			n.Background,
			n.Motivation,
			n.Secret,
			stats,
			n.ID,
		)
		if err != nil {
			return fmt.Errorf("update npc %s: %w", n.ID, err)
		}
		if err := deleteFrom(ctx, uow, "npc_id", n.ID, npcChildTables...); err != nil {
			return fmt.Errorf("update npc %s: %w", n.ID, err)
		}
		if err := insertNPCChildren(ctx, uow, n); err != nil {
			return fmt.Errorf("update npc %s: %w", n.ID, err)
		}
		return nil
	})
}

// Delete removes the NPC and every row it owns.
func (m *NPCMapper) Delete(ctx context.Context, id string) error {
	return m.s.withUnitOfWork(ctx, "delete npc", func(uow *UnitOfWork) error {
		if err := deleteFrom(ctx, uow, "npc_id", id, npcChildTables...); err != nil {
			return fmt.Errorf("delete npc %s: %w", id, err)
		}
		if err := deleteFrom(ctx, uow, "id", id, "npcs"); err != nil {
			return fmt.Errorf("delete npc %s: %w", id, err)
		}
		return nil
	})
}

// List returns every NPC id in ascending order.
func (m *NPCMapper) List(ctx context.Context) ([]string, error) {
	ids, err := m.s.queryStrings(ctx, `SELECT id FROM npcs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list npcs: %w", err)
	}
	return ids, nil
}

// Get reads the NPC with the given id. Returns nil and no error when absent.
func (m *NPCMapper) Get(ctx context.Context, id string) (*campaign.NPC, error) {
	var out *campaign.NPC
	err := m.s.withConn(func(db dbtx) error {
		var err error
		out, err = readNPC(ctx, db, id)
		return err
	})
	if errors.Is(err, ErrUnitOfWorkOpen) {
		return nil, fmt.Errorf("get npc %s: %w", id, err)
	}
	return out, err
}

func readNPC(ctx context.Context, db dbtx, id string) (*campaign.NPC, error) {
	n := campaign.NPC{}
	var stats string

	err := db.QueryRowContext(ctx, `
		SELECT id, name, race, gender, occupation, role, quirk, background, motivation, secret, stats
		FROM npcs WHERE id = ?
	`, id).Scan(
		&n.ID, &n.Name, &n.Race, &n.Gender, &n.Occupation, &n.Role,
		&n.Quirk, &n.Background, &n.Motivation, &n.Secret, &stats,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get npc %s: %w", id, err)
	}
	if n.Stats, err = decodeStats(stats); err != nil {
		return nil, fmt.Errorf("get npc %s: %w", id, err)
	}

	if n.Descriptions, err = queryStrings(ctx, db,
		`SELECT description FROM npc_descriptions WHERE npc_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("get npc %s: descriptions: %w", id, err)
	}
	if n.Traits, err = queryStrings(ctx, db,
		`SELECT trait FROM npc_traits WHERE npc_id = ? ORDER BY trait`, id); err != nil {
		return nil, fmt.Errorf("get npc %s: traits: %w", id, err)
	}
	if n.Items, err = queryStrings(ctx, db,
		`SELECT item FROM npc_items WHERE npc_id = ? ORDER BY item`, id); err != nil {
		return nil, fmt.Errorf("get npc %s: items: %w", id, err)
	}

	links, err := readDescribedLinks(ctx, db,
		`SELECT quest_id, description FROM npc_quests WHERE npc_id = ? ORDER BY quest_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get npc %s: quests: %w", id, err)
	}
	for _, l := range links {
		n.Quests = append(n.Quests, campaign.QuestLink{QuestID: l.id, Description: l.description})
	}

	links, err = readDescribedLinks(ctx, db,
		`SELECT target_npc_id, description FROM npc_relationships WHERE npc_id = ? ORDER BY target_npc_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get npc %s: relationships: %w", id, err)
	}
	for _, l := range links {
		n.Relationships = append(n.Relationships, campaign.Relationship{NPCID: l.id, Description: l.description})
	}

	links, err = readDescribedLinks(ctx, db,
		`SELECT location_id, description FROM npc_locations WHERE npc_id = ? ORDER BY location_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get npc %s: locations: %w", id, err)
	}
	for _, l := range links {
		n.Locations = append(n.Locations, campaign.LocationLink{LocationID: l.id, Description: l.description})
	}

	return &n, nil
}

// insertNPCChildren decomposes every collection of n into child rows.
// Descriptions keep their order through the position column.
func insertNPCChildren(ctx context.Context, tx dbtx, n campaign.NPC) error {
	for i, d := range n.Descriptions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO npc_descriptions (npc_id, position, description) VALUES (?, ?, ?)`,
			n.ID, i, d); err != nil {
			return fmt.Errorf("description %d: %w", i, err)
		}
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO npc_traits (npc_id, trait) VALUES (?, ?)`,
		[]any{n.ID}, n.Traits); err != nil {
		return fmt.Errorf("traits: %w", err)
	}

	for _, l := range n.Quests {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO npc_quests (npc_id, quest_id, description) VALUES (?, ?, ?)`,
			n.ID, l.QuestID, l.Description); err != nil {
			return fmt.Errorf("quest %s: %w", l.QuestID, err)
		}
	}

	for _, r := range n.Relationships {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO npc_relationships (npc_id, target_npc_id, description) VALUES (?, ?, ?)`,
			n.ID, r.NPCID, r.Description); err != nil {
			return fmt.Errorf("relationship %s: %w", r.NPCID, err)
		}
	}

	for _, l := range n.Locations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO npc_locations (npc_id, location_id, description) VALUES (?, ?, ?)`,
			n.ID, l.LocationID, l.Description); err != nil {
			return fmt.Errorf("location %s: %w", l.LocationID, err)
		}
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO npc_items (npc_id, item) VALUES (?, ?)`,
		[]any{n.ID}, n.Items); err != nil {
		return fmt.Errorf("items: %w", err)
	}

	return nil
}

type describedLink struct {
	id          string
	description string
}

// readDescribedLinks reads (target id, description) association rows.
func readDescribedLinks(ctx context.Context, db dbtx, query string, args ...any) ([]describedLink, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []describedLink
	for rows.Next() {
		var l describedLink
		if err := rows.Scan(&l.id, &l.description); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
