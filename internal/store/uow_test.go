package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roach88/lorekeep/internal/campaign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBegin_SecondBeginFails(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)

	_, err = s.Begin(ctx)
	assert.ErrorIs(t, err, ErrUnitOfWorkOpen)

	require.NoError(t, uow.Rollback())

	// The gate is released once the first unit of work ends.
	uow2, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow2.Commit())
}

func TestUnitOfWork_IDIsUUIDv7(t *testing.T) {
	s := createTestStore(t)

	uow, err := s.Begin(context.Background())
	require.NoError(t, err)
	defer uow.Rollback()

	id, err := uuid.Parse(uow.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestUnitOfWork_FinishTwice(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	assert.ErrorIs(t, uow.Commit(), ErrUnitOfWorkDone)
	assert.ErrorIs(t, uow.Rollback(), ErrUnitOfWorkDone)

	_, err = uow.ExecContext(ctx, `SELECT 1`)
	assert.ErrorIs(t, err, ErrUnitOfWorkDone)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = uow.ExecContext(ctx, `INSERT INTO npcs (id, name) VALUES (?, ?)`, "npc-ghost", "Ghost")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	got, err := s.NPCs().Get(ctx, "npc-ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnitOfWork_CommitKeepsWrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = uow.ExecContext(ctx, `INSERT INTO npcs (id, name) VALUES (?, ?)`, "npc-ghost", "Ghost")
	require.NoError(t, err)

	var name string
	require.NoError(t, uow.QueryRowContext(ctx, `SELECT name FROM npcs WHERE id = ?`, "npc-ghost").Scan(&name))
	assert.Equal(t, "Ghost", name)
	require.NoError(t, uow.Commit())

	got, err := s.NPCs().Get(ctx, "npc-ghost")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ghost", got.Name)
}

func TestMapperWrite_WhileUnitOfWorkOpen(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)

	err = s.Quests().Create(ctx, sampleQuest("AB123"))
	assert.ErrorIs(t, err, ErrUnitOfWorkOpen)

	require.NoError(t, uow.Rollback())
	require.NoError(t, s.Quests().Create(ctx, sampleQuest("AB123")))
}

func TestConnectionUse_WhileUnitOfWorkOpen(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Factions().Create(context.Background(), sampleFaction("fac-a")))

	// A statement that reached the connection would wait for the open unit
	// of work; the deadline turns that wait into a failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Factions().AddAlly(ctx, "fac-a", "fac-b"), ErrUnitOfWorkOpen)
	assert.ErrorIs(t, s.Factions().AddLeader(ctx, "fac-a", campaign.Leader{Name: "Vex"}), ErrUnitOfWorkOpen)
	assert.ErrorIs(t, s.Quests().AddTwist(ctx, "AB123", "betrayal"), ErrUnitOfWorkOpen)
	assert.ErrorIs(t, s.Locations().RemoveFeature(ctx, "loc-a", "well"), ErrUnitOfWorkOpen)

	got, err := s.Factions().Get(ctx, "fac-a")
	assert.ErrorIs(t, err, ErrUnitOfWorkOpen)
	assert.Nil(t, got)

	_, err = s.NPCs().List(ctx)
	assert.ErrorIs(t, err, ErrUnitOfWorkOpen)

	_, err = s.Exec(ctx, `DELETE FROM faction_allies`)
	assert.ErrorIs(t, err, ErrUnitOfWorkOpen)

	_, err = s.Query(ctx, `SELECT id FROM factions`)
	assert.ErrorIs(t, err, ErrUnitOfWorkOpen)

	require.NoError(t, uow.Rollback())
	require.NoError(t, s.Factions().AddAlly(ctx, "fac-a", "fac-b"))

	got, err = s.Factions().Get(ctx, "fac-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Contains(t, got.Allies, "fac-b")
}

func TestSingleStatement_ReleasesGate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Factions().Create(ctx, sampleFaction("fac-a")))

	// A failing statement releases the gate as well.
	require.Error(t, s.Factions().AddAlly(ctx, "fac-missing", "fac-b"))
	require.NoError(t, s.Factions().AddAlly(ctx, "fac-a", "fac-b"))

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())
}

func TestWithUnitOfWork_ReturnsErrorUnchanged(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.withUnitOfWork(ctx, "test", func(uow *UnitOfWork) error {
		if _, err := uow.ExecContext(ctx, `INSERT INTO npcs (id, name) VALUES ('npc-a', 'A')`); err != nil {
			return err
		}
		return boom
	})
	assert.Same(t, boom, err)
	assert.Zero(t, countRows(t, s, "npcs", "id", "npc-a"))

	// A failed unit of work releases the gate.
	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())
}

func TestWithUnitOfWork_PanicReleasesGate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.withUnitOfWork(ctx, "test", func(uow *UnitOfWork) error {
			panic("mid-write")
		})
	})

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())
}
