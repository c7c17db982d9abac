package store

import (
	"context"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

// AddResource appends a resource after the faction's last one.
func (m *FactionMapper) AddResource(ctx context.Context, factionID, resource string) error {
	_, err := m.s.exec(ctx, `
		INSERT INTO faction_resources (faction_id, position, resource)
		SELECT ?, COALESCE(MAX(position) + 1, 0), ? FROM faction_resources WHERE faction_id = ?
	`, factionID, resource, factionID)
	if err != nil {
		return fmt.Errorf("add resource to faction %s: %w", factionID, err)
	}
	return nil
}

// RemoveResource removes every resource with the given text.
func (m *FactionMapper) RemoveResource(ctx context.Context, factionID, resource string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM faction_resources WHERE faction_id = ? AND resource = ?`, factionID, resource)
	if err != nil {
		return fmt.Errorf("remove resource from faction %s: %w", factionID, err)
	}
	return nil
}

// AddLeader adds one leader. A leader with the same name already present is
// a constraint violation.
func (m *FactionMapper) AddLeader(ctx context.Context, factionID string, l campaign.Leader) error {
	if err := m.s.withConn(func(db dbtx) error {
		return insertLeader(ctx, db, factionID, l)
	}); err != nil {
		return fmt.Errorf("add to faction %s: %w", factionID, err)
	}
	return nil
}

// RemoveLeader removes the leader with the given name.
func (m *FactionMapper) RemoveLeader(ctx context.Context, factionID, name string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM faction_leaders WHERE faction_id = ? AND name = ?`, factionID, name)
	if err != nil {
		return fmt.Errorf("remove leader from faction %s: %w", factionID, err)
	}
	return nil
}

// AddMember adds one member.
func (m *FactionMapper) AddMember(ctx context.Context, factionID string, mem campaign.Member) error {
	if err := m.s.withConn(func(db dbtx) error {
		return insertMember(ctx, db, factionID, mem)
	}); err != nil {
		return fmt.Errorf("add to faction %s: %w", factionID, err)
	}
	return nil
}

// RemoveMember removes the member with the given name.
func (m *FactionMapper) RemoveMember(ctx context.Context, factionID, name string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM faction_members WHERE faction_id = ? AND name = ?`, factionID, name)
	if err != nil {
		return fmt.Errorf("remove member from faction %s: %w", factionID, err)
	}
	return nil
}

// AddAlly records an allied faction id.
func (m *FactionMapper) AddAlly(ctx context.Context, factionID, allyID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO faction_allies (faction_id, ally_id) VALUES (?, ?)`, factionID, allyID)
	if err != nil {
		return fmt.Errorf("add ally to faction %s: %w", factionID, err)
	}
	return nil
}

// RemoveAlly drops an allied faction id.
func (m *FactionMapper) RemoveAlly(ctx context.Context, factionID, allyID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM faction_allies WHERE faction_id = ? AND ally_id = ?`, factionID, allyID)
	if err != nil {
		return fmt.Errorf("remove ally from faction %s: %w", factionID, err)
	}
	return nil
}

// AddEnemy records an enemy faction id.
func (m *FactionMapper) AddEnemy(ctx context.Context, factionID, enemyID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO faction_enemies (faction_id, enemy_id) VALUES (?, ?)`, factionID, enemyID)
	if err != nil {
		return fmt.Errorf("add enemy to faction %s: %w", factionID, err)
	}
	return nil
}

// RemoveEnemy drops an enemy faction id.
func (m *FactionMapper) RemoveEnemy(ctx context.Context, factionID, enemyID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM faction_enemies WHERE faction_id = ? AND enemy_id = ?`, factionID, enemyID)
	if err != nil {
		return fmt.Errorf("remove enemy from faction %s: %w", factionID, err)
	}
	return nil
}

// AddQuest records a quest the faction is involved in.
func (m *FactionMapper) AddQuest(ctx context.Context, factionID, questID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO faction_quests (faction_id, quest_id) VALUES (?, ?)`, factionID, questID)
	if err != nil {
		return fmt.Errorf("add quest to faction %s: %w", factionID, err)
	}
	return nil
}

// RemoveQuest drops a quest from the faction.
func (m *FactionMapper) RemoveQuest(ctx context.Context, factionID, questID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM faction_quests WHERE faction_id = ? AND quest_id = ?`, factionID, questID)
	if err != nil {
		return fmt.Errorf("remove quest from faction %s: %w", factionID, err)
	}
	return nil
}
