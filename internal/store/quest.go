package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lorekeep/internal/campaign"
)

// questChildTables lists every table owned by a quest, deepest first.
var questChildTables = []string{
	"quest_decision_choices",
	"quest_decision_points",
	"quest_stage_paths",
	"quest_stage_objectives",
	"quest_stages",
	"quest_twists",
	"quest_rewards",
	"quest_follow_ups",
	"quest_related",
	"quest_npcs",
}

// QuestMapper maps Quest aggregates onto the quest tables.
type QuestMapper struct {
	s *Store
}

// Create writes q and all of its collections in one unit of work.
func (m *QuestMapper) Create(ctx context.Context, q campaign.Quest) error {
	return m.s.withUnitOfWork(ctx, "create quest", func(uow *UnitOfWork) error {
		_, err := uow.ExecContext(ctx, `
			INSERT INTO quests (id, title, type, difficulty, description)
			VALUES (?, ?, ?, ?, ?)
		`, q.ID, q.Title, q.Type, q.Difficulty, q.Description)
		if err != nil {
			return fmt.Errorf("create quest %s: %w", q.ID, err)
		}
		if err := insertQuestChildren(ctx, uow, q); err != nil {
			return fmt.Errorf("create quest %s: %w", q.ID, err)
		}
		return nil
	})
}

// Update overwrites the scalar attributes of q and replaces every collection.
// Returns ErrNotFound if no quest has q.ID.
func (m *QuestMapper) Update(ctx context.Context, q campaign.Quest) error {
	return m.s.withUnitOfWork(ctx, "update quest", func(uow *UnitOfWork) error {
		err := execOne(ctx, uow, `
			UPDATE quests SET title = ?, type = ?, difficulty = ?, description = ?
			WHERE id = ?
		`, q.Title, q.Type, q.Difficulty, q.Description, q.ID)
		if err != nil {
			return fmt.Errorf("update quest %s: %w", q.ID, err)
		}
		if err := deleteFrom(ctx, uow, "quest_id", q.ID, questChildTables...); err != nil {
			return fmt.Errorf("update quest %s: %w", q.ID, err)
		}
		if err := insertQuestChildren(ctx, uow, q); err != nil {
			return fmt.Errorf("update quest %s: %w", q.ID, err)
		}
		return nil
	})
}

// Delete removes the quest and every row it owns. Deleting a missing quest
// is a no-op.
func (m *QuestMapper) Delete(ctx context.Context, id string) error {
	return m.s.withUnitOfWork(ctx, "delete quest", func(uow *UnitOfWork) error {
		if err := deleteFrom(ctx, uow, "quest_id", id, questChildTables...); err != nil {
			return fmt.Errorf("delete quest %s: %w", id, err)
		}
		if err := deleteFrom(ctx, uow, "id", id, "quests"); err != nil {
			return fmt.Errorf("delete quest %s: %w", id, err)
		}
		return nil
	})
}

// List returns every quest id in ascending order.
func (m *QuestMapper) List(ctx context.Context) ([]string, error) {
	ids, err := m.s.queryStrings(ctx, `SELECT id FROM quests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	return ids, nil
}

// Get reads the quest with the given id and recomposes its nested shape.
// Returns nil and no error when the quest does not exist.
func (m *QuestMapper) Get(ctx context.Context, id string) (*campaign.Quest, error) {
	var out *campaign.Quest
	err := m.s.withConn(func(db dbtx) error {
		var err error
		out, err = readQuest(ctx, db, id)
		return err
	})
	if errors.Is(err, ErrUnitOfWorkOpen) {
		return nil, fmt.Errorf("get quest %s: %w", id, err)
	}
	return out, err
}

func readQuest(ctx context.Context, db dbtx, id string) (*campaign.Quest, error) {
	q := campaign.Quest{}

	err := db.QueryRowContext(ctx, `
		SELECT id, title, type, difficulty, description FROM quests WHERE id = ?
	`, id).Scan(&q.ID, &q.Title, &q.Type, &q.Difficulty, &q.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quest %s: %w", id, err)
	}

	if q.Stages, err = readStages(ctx, db, id); err != nil {
		return nil, fmt.Errorf("get quest %s: %w", id, err)
	}
	if q.Twists, err = queryStrings(ctx, db,
		`SELECT twist FROM quest_twists WHERE quest_id = ? ORDER BY twist`, id); err != nil {
		return nil, fmt.Errorf("get quest %s: twists: %w", id, err)
	}
	if q.Rewards, err = readPathSets(ctx, db,
		`SELECT path_name, reward FROM quest_rewards WHERE quest_id = ? ORDER BY path_name, reward`, id); err != nil {
		return nil, fmt.Errorf("get quest %s: rewards: %w", id, err)
	}
	if q.FollowUps, err = readPathSets(ctx, db,
		`SELECT path_name, follow_up_id FROM quest_follow_ups WHERE quest_id = ? ORDER BY path_name, follow_up_id`, id); err != nil {
		return nil, fmt.Errorf("get quest %s: follow-ups: %w", id, err)
	}
	if q.RelatedQuests, err = queryStrings(ctx, db,
		`SELECT related_id FROM quest_related WHERE quest_id = ? ORDER BY related_id`, id); err != nil {
		return nil, fmt.Errorf("get quest %s: related quests: %w", id, err)
	}
	if q.NPCs, err = queryStrings(ctx, db,
		`SELECT npc_id FROM quest_npcs WHERE quest_id = ? ORDER BY npc_id`, id); err != nil {
		return nil, fmt.Errorf("get quest %s: npcs: %w", id, err)
	}

	return &q, nil
}

// insertQuestChildren decomposes every collection of q into child rows.
// Statement order: stages (with their nested rows), twists, rewards,
// follow-ups, related quests, NPCs.
func insertQuestChildren(ctx context.Context, tx dbtx, q campaign.Quest) error {
	for _, st := range q.Stages {
		if err := insertStage(ctx, tx, q.ID, st); err != nil {
			return err
		}
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO quest_twists (quest_id, twist) VALUES (?, ?)`,
		[]any{q.ID}, q.Twists); err != nil {
		return fmt.Errorf("twists: %w", err)
	}

	for _, path := range sortedKeys(q.Rewards) {
		if err := insertStrings(ctx, tx,
			`INSERT INTO quest_rewards (quest_id, path_name, reward) VALUES (?, ?, ?)`,
			[]any{q.ID, path}, q.Rewards[path]); err != nil {
			return fmt.Errorf("rewards for path %q: %w", path, err)
		}
	}

	for _, path := range sortedKeys(q.FollowUps) {
		if err := insertStrings(ctx, tx,
			`INSERT INTO quest_follow_ups (quest_id, path_name, follow_up_id) VALUES (?, ?, ?)`,
			[]any{q.ID, path}, q.FollowUps[path]); err != nil {
			return fmt.Errorf("follow-ups for path %q: %w", path, err)
		}
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO quest_related (quest_id, related_id) VALUES (?, ?)`,
		[]any{q.ID}, q.RelatedQuests); err != nil {
		return fmt.Errorf("related quests: %w", err)
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO quest_npcs (quest_id, npc_id) VALUES (?, ?)`,
		[]any{q.ID}, q.NPCs); err != nil {
		return fmt.Errorf("npcs: %w", err)
	}

	return nil
}

// insertStage writes the stage row, then its objectives, completion paths and
// decision points keyed by (quest id, stage number).
func insertStage(ctx context.Context, tx dbtx, questID string, st campaign.Stage) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO quest_stages (quest_id, stage_number, title, description)
		VALUES (?, ?, ?, ?)
	`, questID, st.Number, st.Title, st.Description)
	if err != nil {
		return fmt.Errorf("stage %d: %w", st.Number, err)
	}

	if err := insertStrings(ctx, tx,
		`INSERT INTO quest_stage_objectives (quest_id, stage_number, objective) VALUES (?, ?, ?)`,
		[]any{questID, st.Number}, st.Objectives); err != nil {
		return fmt.Errorf("stage %d objectives: %w", st.Number, err)
	}

	for _, name := range sortedKeys(st.CompletionPaths) {
		if err := insertCompletionPath(ctx, tx, questID, st.Number, name, st.CompletionPaths[name]); err != nil {
			return fmt.Errorf("stage %d: %w", st.Number, err)
		}
	}

	for _, dp := range st.DecisionPoints {
		if err := insertDecisionPoint(ctx, tx, questID, st.Number, dp); err != nil {
			return fmt.Errorf("stage %d: %w", st.Number, err)
		}
	}
	return nil
}

func insertCompletionPath(ctx context.Context, tx dbtx, questID string, stage int, name string, p campaign.CompletionPath) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO quest_stage_paths (quest_id, stage_number, path_name, description, challenges, outcomes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, questID, stage, name, p.Description, p.Challenges, p.Outcomes)
	if err != nil {
		return fmt.Errorf("completion path %q: %w", name, err)
	}
	return nil
}

func insertDecisionPoint(ctx context.Context, tx dbtx, questID string, stage int, dp campaign.DecisionPoint) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO quest_decision_points (quest_id, stage_number, name, description)
		VALUES (?, ?, ?, ?)
	`, questID, stage, dp.Name, dp.Description)
	if err != nil {
		return fmt.Errorf("decision point %q: %w", dp.Name, err)
	}

	for _, choice := range sortedKeys(dp.Choices) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quest_decision_choices (quest_id, stage_number, decision_name, choice, consequence)
			VALUES (?, ?, ?, ?, ?)
		`, questID, stage, dp.Name, choice, dp.Choices[choice])
		if err != nil {
			return fmt.Errorf("decision point %q choice %q: %w", dp.Name, choice, err)
		}
	}
	return nil
}

// readStages recomposes the stages of a quest ordered by stage number.
// Each nested collection is read with one query and folded in memory, so no
// two result sets are open on the connection at once.
func readStages(ctx context.Context, db dbtx, questID string) ([]campaign.Stage, error) {
	stages, err := readStageRows(ctx, db, questID)
	if err != nil || len(stages) == 0 {
		return nil, err
	}

	byNumber := make(map[int]*campaign.Stage, len(stages))
	for i := range stages {
		byNumber[stages[i].Number] = &stages[i]
	}

	if err := readObjectives(ctx, db, questID, byNumber); err != nil {
		return nil, err
	}
	if err := readCompletionPaths(ctx, db, questID, byNumber); err != nil {
		return nil, err
	}
	if err := readDecisionPoints(ctx, db, questID, byNumber); err != nil {
		return nil, err
	}

	// Decision point pointers are taken only after every append above.
	decisions := make(map[decisionKey]*campaign.DecisionPoint)
	for i := range stages {
		for j := range stages[i].DecisionPoints {
			dp := &stages[i].DecisionPoints[j]
			decisions[decisionKey{stages[i].Number, dp.Name}] = dp
		}
	}
	if len(decisions) > 0 {
		if err := readDecisionChoices(ctx, db, questID, decisions); err != nil {
			return nil, err
		}
	}

	return stages, nil
}

type decisionKey struct {
	stage int
	name  string
}

func readStageRows(ctx context.Context, db dbtx, questID string) ([]campaign.Stage, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT stage_number, title, description FROM quest_stages
		WHERE quest_id = ? ORDER BY stage_number
	`, questID)
	if err != nil {
		return nil, fmt.Errorf("stages: %w", err)
	}
	defer rows.Close()

	var stages []campaign.Stage
	for rows.Next() {
		var st campaign.Stage
		if err := rows.Scan(&st.Number, &st.Title, &st.Description); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stages: %w", err)
	}
	return stages, nil
}

func readObjectives(ctx context.Context, db dbtx, questID string, byNumber map[int]*campaign.Stage) error {
	rows, err := db.QueryContext(ctx, `
		SELECT stage_number, objective FROM quest_stage_objectives
		WHERE quest_id = ? ORDER BY stage_number, objective
	`, questID)
	if err != nil {
		return fmt.Errorf("objectives: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n int
		var objective string
		if err := rows.Scan(&n, &objective); err != nil {
			return fmt.Errorf("scan objective: %w", err)
		}
		if st, ok := byNumber[n]; ok {
			st.Objectives = append(st.Objectives, objective)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate objectives: %w", err)
	}
	return nil
}

func readCompletionPaths(ctx context.Context, db dbtx, questID string, byNumber map[int]*campaign.Stage) error {
	rows, err := db.QueryContext(ctx, `
		SELECT stage_number, path_name, description, challenges, outcomes FROM quest_stage_paths
		WHERE quest_id = ?
	`, questID)
	if err != nil {
		return fmt.Errorf("completion paths: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n int
		var name string
		var p campaign.CompletionPath
		if err := rows.Scan(&n, &name, &p.Description, &p.Challenges, &p.Outcomes); err != nil {
			return fmt.Errorf("scan completion path: %w", err)
		}
		st, ok := byNumber[n]
		if !ok {
			continue
		}
		if st.CompletionPaths == nil {
			st.CompletionPaths = make(map[string]campaign.CompletionPath)
		}
		st.CompletionPaths[name] = p
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate completion paths: %w", err)
	}
	return nil
}

func readDecisionPoints(ctx context.Context, db dbtx, questID string, byNumber map[int]*campaign.Stage) error {
	rows, err := db.QueryContext(ctx, `
		SELECT stage_number, name, description FROM quest_decision_points
		WHERE quest_id = ? ORDER BY stage_number, name
	`, questID)
	if err != nil {
		return fmt.Errorf("decision points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n int
		var dp campaign.DecisionPoint
		if err := rows.Scan(&n, &dp.Name, &dp.Description); err != nil {
			return fmt.Errorf("scan decision point: %w", err)
		}
		if st, ok := byNumber[n]; ok {
			st.DecisionPoints = append(st.DecisionPoints, dp)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate decision points: %w", err)
	}
	return nil
}

func readDecisionChoices(ctx context.Context, db dbtx, questID string, decisions map[decisionKey]*campaign.DecisionPoint) error {
	rows, err := db.QueryContext(ctx, `
		SELECT stage_number, decision_name, choice, consequence FROM quest_decision_choices
		WHERE quest_id = ?
	`, questID)
	if err != nil {
		return fmt.Errorf("decision choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key decisionKey
		var choice, consequence string
		if err := rows.Scan(&key.stage, &key.name, &choice, &consequence); err != nil {
			return fmt.Errorf("scan decision choice: %w", err)
		}
		dp, ok := decisions[key]
		if !ok {
			continue
		}
		if dp.Choices == nil {
			dp.Choices = make(map[string]string)
		}
		dp.Choices[choice] = consequence
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate decision choices: %w", err)
	}
	return nil
}

// readPathSets folds (path name, value) rows into a map of sets.
func readPathSets(ctx context.Context, db dbtx, query string, args ...any) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out map[string][]string
	for rows.Next() {
		var path, value string
		if err := rows.Scan(&path, &value); err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[path] = append(out[path], value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
