package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lorekeep/internal/campaign"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocument_Saltmere(t *testing.T) {
	doc, err := LoadDocument(saltmereDoc)
	require.NoError(t, err)

	assert.Equal(t, 5, doc.Count())
	require.Len(t, doc.Quests, 1)
	q := doc.Quests[0]
	assert.Equal(t, "AB123", q.ID)
	require.Len(t, q.Stages, 2)
	assert.Equal(t, map[string]string{"force": "alarm"}, q.Stages[0].DecisionPoints[0].Choices)

	require.Len(t, doc.NPCs, 1)
	assert.Equal(t, campaign.Stats{"str": 14, "wis": 12}, doc.NPCs[0].Stats)

	require.Len(t, doc.Locations, 1)
	assert.Equal(t, "fac-hand", doc.Locations[0].ControllingFaction)
	assert.Equal(t, []string{"cranes", "fish market"}, doc.Locations[0].Districts["docks"].Features)
}

func TestLoadDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"empty", "", "document is empty"},
		{"malformed", "quests: [", "decoding yaml"},
		{"unknown field", "quests:\n  - id: AB123\n    title: x\n    reward: gold\n", "decoding yaml"},
		{"hidden flag not settable", "factions:\n  - id: f\n    name: F\n    leaders:\n      - name: L\n        hidden: true\n", "decoding yaml"},
		{"missing id", "npcs:\n  - name: Nobody\n", "npc #1 has no id"},
		{"duplicate id", "factions:\n  - id: f\n    name: A\n  - id: f\n    name: B\n", "faction f appears more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDocument(writeDoc(t, tt.content))
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
			assert.Contains(t, loadErr.Message, tt.wantMsg)
		})
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading document")
}

func TestLoadError_Error(t *testing.T) {
	err := &LoadError{Code: "E003", Message: "document is empty", Path: "a.yaml"}
	assert.Equal(t, "a.yaml: E003: document is empty", err.Error())

	err.Path = ""
	assert.Equal(t, "E003: document is empty", err.Error())
}
