package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lorekeep/internal/store"
)

func TestImport_WritesEveryKind(t *testing.T) {
	dbPath := tempDB(t)
	opts := &RootOptions{Format: "text", Database: dbPath}

	out, err := runCommand(NewImportCommand(opts), saltmereDoc)
	require.NoError(t, err)
	assert.Contains(t, out, "1 quest(s), 1 npc(s), 1 faction(s), 1 location(s) (4 created, 0 replaced)")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	q, err := st.Quests().Get(ctx, "AB123")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Len(t, q.Stages, 2)

	f, err := st.Factions().Get(ctx, "fac-hand")
	require.NoError(t, err)
	require.NotNil(t, f)
	require.Len(t, f.Leaders, 2)
	assert.False(t, f.Leaders[0].Hidden)
	assert.True(t, f.Leaders[1].Hidden)

	loc, err := st.Locations().Get(ctx, "loc-saltmere")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "fac-hand", loc.ControllingFaction)
}

func TestImport_DuplicateWithoutReplace(t *testing.T) {
	dbPath := tempDB(t)
	importSaltmere(t, dbPath)

	opts := &RootOptions{Format: "json", Database: dbPath}
	out, err := runCommand(NewImportCommand(opts), saltmereDoc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConstraint, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "quest AB123 already exists")
}

func TestImport_Replace(t *testing.T) {
	dbPath := tempDB(t)
	importSaltmere(t, dbPath)

	// Drift the stored quest, then re-import over it.
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Quests().AddTwist(context.Background(), "AB123", "added later"))
	st.Close()

	opts := &RootOptions{Format: "json", Database: dbPath}
	out, err := runCommand(NewImportCommand(opts), "--replace", saltmereDoc)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Created)
	assert.Equal(t, 4, resp.Data.Replaced)

	st, err = store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	q, err := st.Quests().Get(context.Background(), "AB123")
	require.NoError(t, err)
	assert.Equal(t, []string{"ally betrays you"}, q.Twists)
}

func TestImport_UnknownControllingFaction(t *testing.T) {
	path := writeDoc(t, "locations:\n  - id: loc-a\n    name: A\n    controlling_faction: fac-nobody\n")
	opts := &RootOptions{Format: "text", Database: tempDB(t)}

	out, err := runCommand(NewImportCommand(opts), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "location loc-a rejected")
}

func TestImport_EmptyAreaValue(t *testing.T) {
	path := writeDoc(t, "locations:\n  - id: loc-a\n    name: A\n    areas:\n      vault:\n        name: Vault\n        treasures: [\"\"]\n")
	opts := &RootOptions{Format: "text", Database: tempDB(t)}

	out, err := runCommand(NewImportCommand(opts), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "location loc-a rejected")
}

func TestImport_BadDocument(t *testing.T) {
	path := writeDoc(t, "quests: [")
	opts := &RootOptions{Format: "text", Database: tempDB(t)}

	out, err := runCommand(NewImportCommand(opts), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]: failed to load document")
}

func TestImport_RequiresFileArgument(t *testing.T) {
	opts := &RootOptions{Format: "text", Database: tempDB(t)}
	_, err := runCommand(NewImportCommand(opts))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestImport_ReplaceFlagDefault(t *testing.T) {
	cmd := NewImportCommand(&RootOptions{})
	flag := cmd.Flags().Lookup("replace")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
