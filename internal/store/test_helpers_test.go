package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/lorekeep/internal/campaign"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// countRows returns the number of rows in table whose column equals id.
func countRows(t *testing.T, s *Store, table, column, id string) int {
	t.Helper()
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, column)
	require.NoError(t, s.db.QueryRowContext(context.Background(), query, id).Scan(&n))
	return n
}

// requireNoChildRows asserts that no table in tables has a row for id.
func requireNoChildRows(t *testing.T, s *Store, column, id string, tables []string) {
	t.Helper()
	for _, table := range tables {
		require.Zerof(t, countRows(t, s, table, column, id), "table %s still has rows for %s", table, id)
	}
}

// sampleQuest returns a quest that exercises every collection. Sets are
// given in sorted order so the value read back compares equal.
func sampleQuest(id string) campaign.Quest {
	return campaign.Quest{
		ID:          id,
		Title:       "The Sealed Door",
		Type:        "main",
		Difficulty:  "hard",
		Description: "A door beneath the abbey has not opened in a century.",
		Stages: []campaign.Stage{
			{
				Number:      1,
				Title:       "Find the door",
				Description: "Search the crypt.",
				Objectives:  []string{"find door", "question the warden"},
				CompletionPaths: map[string]campaign.CompletionPath{
					"force":   {Description: "Break through", Challenges: "DC 18 Athletics", Outcomes: "Alarm raised"},
					"stealth": {Description: "Slip past the guards"},
				},
				DecisionPoints: []campaign.DecisionPoint{
					{
						Name:        "breach",
						Description: "How does the party enter?",
						Choices:     map[string]string{"force": "alarm", "pick the lock": "quiet entry"},
					},
				},
			},
			{
				Number:     2,
				Title:      "Open the door",
				Objectives: []string{"open door"},
			},
		},
		Twists: []string{"ally betrays you", "the door is a mimic"},
		Rewards: map[string][]string{
			"force":   {"100 gold"},
			"stealth": {"200 gold", "abbey map"},
		},
		FollowUps:     map[string][]string{"stealth": {"CD456"}},
		RelatedQuests: []string{"EF789"},
		NPCs:          []string{"npc-warden"},
	}
}

func sampleNPC(id string) campaign.NPC {
	return campaign.NPC{
		ID:         id,
		Name:       "Marta Vell",
		Race:       "human",
		Gender:     "female",
		Occupation: "warden",
		Role:       "gatekeeper",
		Quirk:      "counts keys aloud",
		Background: "Former soldier.",
		Motivation: "Keep the door shut.",
		Secret:     "She has the only key.",
		Stats:      campaign.Stats{"str": 14, "wis": 12},
		Descriptions: []string{
			"Tall, scarred, unsmiling.",
			"Wears a ring of iron keys.",
		},
		Traits: []string{"loyal", "suspicious"},
		Quests: []campaign.QuestLink{
			{QuestID: "AB123", Description: "guards the door"},
		},
		Relationships: []campaign.Relationship{
			{NPCID: "npc-abbot", Description: "distrusts"},
			{NPCID: "npc-smith", Description: "old friend"},
		},
		Locations: []campaign.LocationLink{
			{LocationID: "loc-abbey", Description: "lives in the gatehouse"},
		},
		Items: []string{"iron key", "lantern"},
	}
}

func sampleFaction(id string) campaign.Faction {
	return campaign.Faction{
		ID:           id,
		Name:         "The Quiet Hand",
		Type:         "guild",
		Alignment:    "lawful evil",
		Description:  "Thieves who never speak.",
		PublicGoal:   "Protect merchants",
		TrueGoal:     "Own the city",
		Headquarters: "Old mint",
		Territory:    "Docks",
		History:      "Founded after the flood.",
		Notes:        "Uses sign language.",
		Resources:    []string{"smuggling tunnels", "bribed guards", "a fleet of barges"},
		Leaders: []campaign.Leader{
			{Name: "Ilse", Role: "Guildmaster", Bio: "Public face.", Stats: campaign.Stats{"cha": 16}},
			{Name: "The Whisper", Role: "Hidden Master", Secret: "Is the mayor."},
		},
		Members: []campaign.Member{
			{Name: "Dov", Role: "fence"},
			{Name: "Pell", Role: "lookout", Description: "Young and eager."},
		},
		Allies:  []string{"fac-smugglers"},
		Enemies: []string{"fac-watch", "fac-zealots"},
		Quests:  []string{"AB123"},
	}
}

// expectedFaction is f as read back: leader hidden flags derived from roles.
func expectedFaction(f campaign.Faction) campaign.Faction {
	leaders := make([]campaign.Leader, len(f.Leaders))
	for i, l := range f.Leaders {
		l.Hidden = campaign.IsHiddenRole(l.Role)
		leaders[i] = l
	}
	f.Leaders = leaders
	return f
}

func sampleLocation(id, factionID string) campaign.Location {
	return campaign.Location{
		ID:                 id,
		Name:               "Saltmere",
		Type:               "city",
		Region:             "coast",
		Description:        "A port city sinking into the marsh.",
		History:            "Flooded twice.",
		DangerLevel:        "moderate",
		ControllingFaction: factionID,
		Features:           []string{"canals", "lighthouse"},
		PointsOfInterest: []campaign.PointOfInterest{
			{Name: "Drowned Market", Description: "Stalls on rafts."},
			{Name: "Old Mint"},
		},
		Districts: map[string]campaign.District{
			"docks": {
				Name:        "The Docks",
				Description: "Warehouses and gulls.",
				Features:    []string{"cranes", "fish market"},
				NPCs:        []string{"npc-dov"},
			},
			"high": {
				Name: "High Town",
			},
		},
		Areas: map[string]campaign.Area{
			"sewer-1": {
				Name:       "Upper Sewers",
				Features:   []string{"flooded tunnel"},
				Encounters: []string{"giant rats", "sewer ooze"},
				Treasures:  []string{"lost ring"},
				NPCs:       []string{"npc-pell"},
			},
		},
		NPCs:        []string{"npc-dov", "npc-pell"},
		Factions:    []string{"fac-hand"},
		Connections: []string{"loc-abbey"},
	}
}
