package store

import (
	"context"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

// AddDescription appends a description after the NPC's last one.
func (m *NPCMapper) AddDescription(ctx context.Context, npcID, description string) error {
	_, err := m.s.exec(ctx, `
		INSERT INTO npc_descriptions (npc_id, position, description)
		SELECT ?, COALESCE(MAX(position) + 1, 0), ? FROM npc_descriptions WHERE npc_id = ?
	`, npcID, description, npcID)
	if err != nil {
		return fmt.Errorf("add description to npc %s: %w", npcID, err)
	}
	return nil
}

// RemoveDescription removes every description with the given text. The
// positions of the remaining descriptions keep their relative order.
func (m *NPCMapper) RemoveDescription(ctx context.Context, npcID, description string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM npc_descriptions WHERE npc_id = ? AND description = ?`, npcID, description)
	if err != nil {
		return fmt.Errorf("remove description from npc %s: %w", npcID, err)
	}
	return nil
}

// AddTrait adds a personality trait.
func (m *NPCMapper) AddTrait(ctx context.Context, npcID, trait string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO npc_traits (npc_id, trait) VALUES (?, ?)`, npcID, trait)
	if err != nil {
		return fmt.Errorf("add trait to npc %s: %w", npcID, err)
	}
	return nil
}

// RemoveTrait removes a personality trait.
func (m *NPCMapper) RemoveTrait(ctx context.Context, npcID, trait string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM npc_traits WHERE npc_id = ? AND trait = ?`, npcID, trait)
	if err != nil {
		return fmt.Errorf("remove trait from npc %s: %w", npcID, err)
	}
	return nil
}

// AddQuest associates the NPC with a quest.
func (m *NPCMapper) AddQuest(ctx context.Context, npcID string, link campaign.QuestLink) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO npc_quests (npc_id, quest_id, description) VALUES (?, ?, ?)`,
		npcID, link.QuestID, link.Description)
	if err != nil {
		return fmt.Errorf("add quest to npc %s: %w", npcID, err)
	}
	return nil
}

// RemoveQuest drops the NPC's association with a quest.
func (m *NPCMapper) RemoveQuest(ctx context.Context, npcID, questID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM npc_quests WHERE npc_id = ? AND quest_id = ?`, npcID, questID)
	if err != nil {
		return fmt.Errorf("remove quest from npc %s: %w", npcID, err)
	}
	return nil
}

// AddRelationship links the NPC to another NPC.
func (m *NPCMapper) AddRelationship(ctx context.Context, npcID string, r campaign.Relationship) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO npc_relationships (npc_id, target_npc_id, description) VALUES (?, ?, ?)`,
		npcID, r.NPCID, r.Description)
	if err != nil {
		return fmt.Errorf("add relationship to npc %s: %w", npcID, err)
	}
	return nil
}

// RemoveRelationship unlinks the NPC from another NPC.
func (m *NPCMapper) RemoveRelationship(ctx context.Context, npcID, targetID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM npc_relationships WHERE npc_id = ? AND target_npc_id = ?`, npcID, targetID)
	if err != nil {
		return fmt.Errorf("remove relationship from npc %s: %w", npcID, err)
	}
	return nil
}

// AddLocation associates the NPC with a location.
func (m *NPCMapper) AddLocation(ctx context.Context, npcID string, link campaign.LocationLink) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO npc_locations (npc_id, location_id, description) VALUES (?, ?, ?)`,
		npcID, link.LocationID, link.Description)
	if err != nil {
		return fmt.Errorf("add location to npc %s: %w", npcID, err)
	}
	return nil
}

// RemoveLocation drops the NPC's association with a location.
func (m *NPCMapper) RemoveLocation(ctx context.Context, npcID, locationID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM npc_locations WHERE npc_id = ? AND location_id = ?`, npcID, locationID)
	if err != nil {
		return fmt.Errorf("remove location from npc %s: %w", npcID, err)
	}
	return nil
}

// AddItem adds an inventory item.
func (m *NPCMapper) AddItem(ctx context.Context, npcID, item string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO npc_items (npc_id, item) VALUES (?, ?)`, npcID, item)
	if err != nil {
		return fmt.Errorf("add item to npc %s: %w", npcID, err)
	}
	return nil
}

// RemoveItem removes an inventory item.
func (m *NPCMapper) RemoveItem(ctx context.Context, npcID, item string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM npc_items WHERE npc_id = ? AND item = ?`, npcID, item)
	if err != nil {
		return fmt.Errorf("remove item from npc %s: %w", npcID, err)
	}
	return nil
}
