package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lorekeep/internal/campaign"
)

func TestNPC_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := sampleNPC("npc-marta")
	require.NoError(t, s.NPCs().Create(ctx, want))

	got, err := s.NPCs().Get(ctx, "npc-marta")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestNPC_MinimalRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := campaign.NPC{ID: "npc-nobody", Name: "Nobody"}
	require.NoError(t, s.NPCs().Create(ctx, want))

	got, err := s.NPCs().Get(ctx, "npc-nobody")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestNPC_StatsStoredCanonically(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n := campaign.NPC{ID: "npc-a", Name: "A", Stats: campaign.Stats{"wis": 9, "dex": 15, "str": 10}}
	require.NoError(t, s.NPCs().Create(ctx, n))

	var raw string
	require.NoError(t, s.db.QueryRow(`SELECT stats FROM npcs WHERE id = 'npc-a'`).Scan(&raw))
	assert.Equal(t, `{"dex":15,"str":10,"wis":9}`, raw)
}

func TestNPC_StatsKeysRoundTripUnchanged(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// "e" + combining acute accent.
	n := campaign.NPC{ID: "npc-a", Name: "A", Stats: campaign.Stats{"e\u0301lan": 3, "str": 10}}
	require.NoError(t, s.NPCs().Create(ctx, n))

	got, err := s.NPCs().Get(ctx, "npc-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, n.Stats, got.Stats)
}

func TestNPC_StatsRejectEquivalentKeys(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n := campaign.NPC{ID: "npc-a", Name: "A", Stats: campaign.Stats{"e\u0301": 1, "\u00e9": 2}}
	require.Error(t, s.NPCs().Create(ctx, n))
	assert.Zero(t, countRows(t, s, "npcs", "id", "npc-a"))
}

func TestNPC_DescriptionsKeepOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n := campaign.NPC{
		ID:           "npc-a",
		Name:         "A",
		Descriptions: []string{"zeta", "alpha", "mu"},
	}
	require.NoError(t, s.NPCs().Create(ctx, n))

	got, err := s.NPCs().Get(ctx, "npc-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mu"}, got.Descriptions)
}

func TestNPC_CreateIsAtomic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n := sampleNPC("npc-marta")
	n.Traits = []string{"loyal", "loyal"}

	err := s.NPCs().Create(ctx, n)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	got, err := s.NPCs().Get(ctx, "npc-marta")
	require.NoError(t, err)
	assert.Nil(t, got)
	requireNoChildRows(t, s, "npc_id", "npc-marta", npcChildTables)
}

func TestNPC_UpdateReplacesEverything(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.NPCs().Create(ctx, sampleNPC("npc-marta")))

	replacement := campaign.NPC{
		ID:           "npc-marta",
		Name:         "Marta the Freed",
		Occupation:   "pilgrim",
		Stats:        campaign.Stats{"con": 11},
		Descriptions: []string{"Travel-worn."},
		Traits:       []string{"hopeful"},
		Relationships: []campaign.Relationship{
			{NPCID: "npc-abbot", Description: "forgave"},
		},
	}
	require.NoError(t, s.NPCs().Update(ctx, replacement))

	got, err := s.NPCs().Get(ctx, "npc-marta")
	require.NoError(t, err)
	assert.Equal(t, replacement, *got)
	assert.Zero(t, countRows(t, s, "npc_items", "npc_id", "npc-marta"))
	assert.Zero(t, countRows(t, s, "npc_quests", "npc_id", "npc-marta"))
}

func TestNPC_UpdateMissing(t *testing.T) {
	s := createTestStore(t)
	err := s.NPCs().Update(context.Background(), sampleNPC("npc-ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNPC_DeleteRemovesAllChildRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.NPCs().Create(ctx, sampleNPC("npc-marta")))
	require.NoError(t, s.NPCs().Create(ctx, sampleNPC("npc-other")))
	for _, table := range npcChildTables {
		require.NotZerof(t, countRows(t, s, table, "npc_id", "npc-marta"), "fixture leaves %s empty", table)
	}

	require.NoError(t, s.NPCs().Delete(ctx, "npc-marta"))

	requireNoChildRows(t, s, "npc_id", "npc-marta", npcChildTables)
	got, err := s.NPCs().Get(ctx, "npc-marta")
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err := s.NPCs().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"npc-other"}, ids)
}

func TestNPC_DescriptionMutators(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	npcs := s.NPCs()

	require.NoError(t, npcs.Create(ctx, campaign.NPC{ID: "npc-a", Name: "A"}))

	require.NoError(t, npcs.AddDescription(ctx, "npc-a", "first"))
	require.NoError(t, npcs.AddDescription(ctx, "npc-a", "second"))
	require.NoError(t, npcs.AddDescription(ctx, "npc-a", "third"))
	require.NoError(t, npcs.RemoveDescription(ctx, "npc-a", "second"))
	require.NoError(t, npcs.AddDescription(ctx, "npc-a", "fourth"))

	got, err := npcs.Get(ctx, "npc-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third", "fourth"}, got.Descriptions)
}

func TestNPC_CollectionMutators(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	npcs := s.NPCs()

	require.NoError(t, npcs.Create(ctx, sampleNPC("npc-marta")))

	require.NoError(t, npcs.AddTrait(ctx, "npc-marta", "brave"))
	require.NoError(t, npcs.RemoveTrait(ctx, "npc-marta", "suspicious"))
	require.NoError(t, npcs.AddQuest(ctx, "npc-marta", campaign.QuestLink{QuestID: "CD456", Description: "informant"}))
	require.NoError(t, npcs.RemoveQuest(ctx, "npc-marta", "AB123"))
	require.NoError(t, npcs.AddRelationship(ctx, "npc-marta", campaign.Relationship{NPCID: "npc-dov", Description: "owes money"}))
	require.NoError(t, npcs.RemoveRelationship(ctx, "npc-marta", "npc-smith"))
	require.NoError(t, npcs.AddLocation(ctx, "npc-marta", campaign.LocationLink{LocationID: "loc-saltmere"}))
	require.NoError(t, npcs.RemoveLocation(ctx, "npc-marta", "loc-abbey"))
	require.NoError(t, npcs.AddItem(ctx, "npc-marta", "dagger"))
	require.NoError(t, npcs.RemoveItem(ctx, "npc-marta", "lantern"))

	got, err := npcs.Get(ctx, "npc-marta")
	require.NoError(t, err)

	want := sampleNPC("npc-marta")
	want.Traits = []string{"brave", "loyal"}
	want.Quests = []campaign.QuestLink{{QuestID: "CD456", Description: "informant"}}
	want.Relationships = []campaign.Relationship{
		{NPCID: "npc-abbot", Description: "distrusts"},
		{NPCID: "npc-dov", Description: "owes money"},
	}
	want.Locations = []campaign.LocationLink{{LocationID: "loc-saltmere"}}
	want.Items = []string{"dagger", "iron key"}
	assert.Equal(t, want, *got)
}

func TestNPC_MutatorRejectsUnknownNPC(t *testing.T) {
	s := createTestStore(t)

	err := s.NPCs().AddDescription(context.Background(), "npc-ghost", "transparent")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}
