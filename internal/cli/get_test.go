package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lorekeep/internal/campaign"
)

func TestGet_TextPrintsYAML(t *testing.T) {
	dbPath := tempDB(t)
	importSaltmere(t, dbPath)

	opts := &RootOptions{Format: "text", Database: dbPath}
	out, err := runCommand(NewGetCommand(opts), "quest", "AB123")
	require.NoError(t, err)

	var q campaign.Quest
	require.NoError(t, yaml.Unmarshal([]byte(out), &q))
	assert.Equal(t, "AB123", q.ID)
	require.Len(t, q.Stages, 2)
	assert.Equal(t, []string{"find door"}, q.Stages[0].Objectives)
	assert.Equal(t, []string{"ally betrays you"}, q.Twists)
}

func TestGet_JSONEnvelope(t *testing.T) {
	dbPath := tempDB(t)
	importSaltmere(t, dbPath)

	opts := &RootOptions{Format: "json", Database: dbPath}
	out, err := runCommand(NewGetCommand(opts), "factions", "fac-hand")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   campaign.Faction `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "The Quiet Hand", resp.Data.Name)
	assert.Equal(t, []string{"smuggling tunnels", "bribed guards"}, resp.Data.Resources)
	require.Len(t, resp.Data.Leaders, 2)
	assert.True(t, resp.Data.Leaders[1].Hidden)
}

func TestGet_NotFound(t *testing.T) {
	opts := &RootOptions{Format: "json", Database: tempDB(t)}
	out, err := runCommand(NewGetCommand(opts), "npc", "npc-ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E404", resp.Error.Code)
	assert.Equal(t, "npc npc-ghost not found", resp.Error.Message)
}

func TestGet_UnknownKind(t *testing.T) {
	opts := &RootOptions{Format: "text", Database: tempDB(t)}
	out, err := runCommand(NewGetCommand(opts), "dragon", "smaug")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `unknown kind "dragon"`)
}

func TestList(t *testing.T) {
	dbPath := tempDB(t)

	opts := &RootOptions{Format: "text", Database: dbPath}
	out, err := runCommand(NewListCommand(opts), "npcs")
	require.NoError(t, err)
	assert.Equal(t, "No npcs found.\n", out)

	importSaltmere(t, dbPath)
	out, err = runCommand(NewListCommand(opts), "NPC")
	require.NoError(t, err)
	assert.Equal(t, "npc-marta\n", out)
}

func TestList_JSONEmptyIsArray(t *testing.T) {
	opts := &RootOptions{Format: "json", Database: tempDB(t)}
	out, err := runCommand(NewListCommand(opts), "location")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"kind":"location","ids":[]}}`, out)
}

func TestDelete(t *testing.T) {
	dbPath := tempDB(t)
	importSaltmere(t, dbPath)

	opts := &RootOptions{Format: "text", Database: dbPath}
	out, err := runCommand(NewDeleteCommand(opts), "faction", "fac-hand")
	require.NoError(t, err)
	assert.Equal(t, "Deleted faction fac-hand\n", out)

	// The location survives with its controlling faction cleared.
	out, err = runCommand(NewGetCommand(opts), "location", "loc-saltmere")
	require.NoError(t, err)
	var loc campaign.Location
	require.NoError(t, yaml.Unmarshal([]byte(out), &loc))
	assert.Equal(t, "loc-saltmere", loc.ID)
	assert.Empty(t, loc.ControllingFaction)

	_, err = runCommand(NewGetCommand(opts), "faction", "fac-hand")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestDelete_MissingIsNotAnError(t *testing.T) {
	opts := &RootOptions{Format: "json", Database: tempDB(t)}
	out, err := runCommand(NewDeleteCommand(opts), "quest", "ZZ999")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"kind":"quest","id":"ZZ999"}}`, out)
}

func TestLookupKind(t *testing.T) {
	for _, name := range []string{"quest", "quests", "Quest", "NPCS", "faction", "locations"} {
		t.Run(name, func(t *testing.T) {
			_, err := lookupKind(name)
			assert.NoError(t, err)
		})
	}
	_, err := lookupKind("questss")
	assert.Error(t, err)
}
