package store

import (
	"context"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

// AddStage inserts one stage with its objectives, completion paths and
// decision points. The rows span several tables, so they share a unit of work.
func (m *QuestMapper) AddStage(ctx context.Context, questID string, st campaign.Stage) error {
	return m.s.withUnitOfWork(ctx, "add quest stage", func(uow *UnitOfWork) error {
		if err := insertStage(ctx, uow, questID, st); err != nil {
			return fmt.Errorf("add stage to quest %s: %w", questID, err)
		}
		return nil
	})
}

// RemoveStage deletes one stage; its nested rows go with it by cascade.
func (m *QuestMapper) RemoveStage(ctx context.Context, questID string, number int) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM quest_stages WHERE quest_id = ? AND stage_number = ?`, questID, number)
	if err != nil {
		return fmt.Errorf("remove stage %d from quest %s: %w", number, questID, err)
	}
	return nil
}

// AddObjective adds one objective to a stage.
func (m *QuestMapper) AddObjective(ctx context.Context, questID string, stage int, objective string) error {
	_, err := m.s.exec(ctx, `
		INSERT INTO quest_stage_objectives (quest_id, stage_number, objective) VALUES (?, ?, ?)
	`, questID, stage, objective)
	if err != nil {
		return fmt.Errorf("add objective to quest %s stage %d: %w", questID, stage, err)
	}
	return nil
}

// RemoveObjective removes one objective from a stage.
func (m *QuestMapper) RemoveObjective(ctx context.Context, questID string, stage int, objective string) error {
	_, err := m.s.exec(ctx, `
		DELETE FROM quest_stage_objectives WHERE quest_id = ? AND stage_number = ? AND objective = ?
	`, questID, stage, objective)
	if err != nil {
		return fmt.Errorf("remove objective from quest %s stage %d: %w", questID, stage, err)
	}
	return nil
}

// AddCompletionPath adds one named completion path to a stage.
func (m *QuestMapper) AddCompletionPath(ctx context.Context, questID string, stage int, name string, p campaign.CompletionPath) error {
	if err := m.s.withConn(func(db dbtx) error {
		return insertCompletionPath(ctx, db, questID, stage, name, p)
	}); err != nil {
		return fmt.Errorf("add to quest %s stage %d: %w", questID, stage, err)
	}
	return nil
}

// RemoveCompletionPath removes one named completion path from a stage.
func (m *QuestMapper) RemoveCompletionPath(ctx context.Context, questID string, stage int, name string) error {
	_, err := m.s.exec(ctx, `
		DELETE FROM quest_stage_paths WHERE quest_id = ? AND stage_number = ? AND path_name = ?
	`, questID, stage, name)
	if err != nil {
		return fmt.Errorf("remove completion path %q from quest %s: %w", name, questID, err)
	}
	return nil
}

// AddDecisionPoint adds a decision point and its choices to a stage in one
// unit of work.
func (m *QuestMapper) AddDecisionPoint(ctx context.Context, questID string, stage int, dp campaign.DecisionPoint) error {
	return m.s.withUnitOfWork(ctx, "add decision point", func(uow *UnitOfWork) error {
		if err := insertDecisionPoint(ctx, uow, questID, stage, dp); err != nil {
			return fmt.Errorf("add to quest %s stage %d: %w", questID, stage, err)
		}
		return nil
	})
}

// RemoveDecisionPoint removes a decision point; its choices cascade.
func (m *QuestMapper) RemoveDecisionPoint(ctx context.Context, questID string, stage int, name string) error {
	_, err := m.s.exec(ctx, `
		DELETE FROM quest_decision_points WHERE quest_id = ? AND stage_number = ? AND name = ?
	`, questID, stage, name)
	if err != nil {
		return fmt.Errorf("remove decision point %q from quest %s: %w", name, questID, err)
	}
	return nil
}

// AddTwist adds one twist.
func (m *QuestMapper) AddTwist(ctx context.Context, questID, twist string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO quest_twists (quest_id, twist) VALUES (?, ?)`, questID, twist)
	if err != nil {
		return fmt.Errorf("add twist to quest %s: %w", questID, err)
	}
	return nil
}

// RemoveTwist removes one twist.
func (m *QuestMapper) RemoveTwist(ctx context.Context, questID, twist string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM quest_twists WHERE quest_id = ? AND twist = ?`, questID, twist)
	if err != nil {
		return fmt.Errorf("remove twist from quest %s: %w", questID, err)
	}
	return nil
}

// AddReward adds one reward under a completion path name.
func (m *QuestMapper) AddReward(ctx context.Context, questID, path, reward string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO quest_rewards (quest_id, path_name, reward) VALUES (?, ?, ?)`, questID, path, reward)
	if err != nil {
		return fmt.Errorf("add reward to quest %s: %w", questID, err)
	}
	return nil
}

// RemoveReward removes one reward from a completion path name.
func (m *QuestMapper) RemoveReward(ctx context.Context, questID, path, reward string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM quest_rewards WHERE quest_id = ? AND path_name = ? AND reward = ?`, questID, path, reward)
	if err != nil {
		return fmt.Errorf("remove reward from quest %s: %w", questID, err)
	}
	return nil
}

// AddFollowUp links a follow-up quest under a completion path name.
func (m *QuestMapper) AddFollowUp(ctx context.Context, questID, path, followUpID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO quest_follow_ups (quest_id, path_name, follow_up_id) VALUES (?, ?, ?)`, questID, path, followUpID)
	if err != nil {
		return fmt.Errorf("add follow-up to quest %s: %w", questID, err)
	}
	return nil
}

// RemoveFollowUp unlinks a follow-up quest.
func (m *QuestMapper) RemoveFollowUp(ctx context.Context, questID, path, followUpID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM quest_follow_ups WHERE quest_id = ? AND path_name = ? AND follow_up_id = ?`, questID, path, followUpID)
	if err != nil {
		return fmt.Errorf("remove follow-up from quest %s: %w", questID, err)
	}
	return nil
}

// AddRelatedQuest records a related quest id.
func (m *QuestMapper) AddRelatedQuest(ctx context.Context, questID, relatedID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO quest_related (quest_id, related_id) VALUES (?, ?)`, questID, relatedID)
	if err != nil {
		return fmt.Errorf("add related quest to quest %s: %w", questID, err)
	}
	return nil
}

// RemoveRelatedQuest drops a related quest id.
func (m *QuestMapper) RemoveRelatedQuest(ctx context.Context, questID, relatedID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM quest_related WHERE quest_id = ? AND related_id = ?`, questID, relatedID)
	if err != nil {
		return fmt.Errorf("remove related quest from quest %s: %w", questID, err)
	}
	return nil
}

// AddNPC associates an NPC id with the quest.
func (m *QuestMapper) AddNPC(ctx context.Context, questID, npcID string) error {
	_, err := m.s.exec(ctx,
		`INSERT INTO quest_npcs (quest_id, npc_id) VALUES (?, ?)`, questID, npcID)
	if err != nil {
		return fmt.Errorf("add npc to quest %s: %w", questID, err)
	}
	return nil
}

// RemoveNPC drops an NPC id from the quest.
func (m *QuestMapper) RemoveNPC(ctx context.Context, questID, npcID string) error {
	_, err := m.s.exec(ctx,
		`DELETE FROM quest_npcs WHERE quest_id = ? AND npc_id = ?`, questID, npcID)
	if err != nil {
		return fmt.Errorf("remove npc from quest %s: %w", questID, err)
	}
	return nil
}
