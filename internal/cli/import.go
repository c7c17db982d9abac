package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lorekeep/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Replace bool
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	File      string `json:"file"`
	Quests    int    `json:"quests"`
	NPCs      int    `json:"npcs"`
	Factions  int    `json:"factions"`
	Locations int    `json:"locations"`
	Created   int    `json:"created"`
	Replaced  int    `json:"replaced"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import campaign aggregates from a YAML document",
		Long: `Import quests, NPCs, factions and locations from a YAML document.

The document has top-level "quests", "npcs", "factions" and "locations"
lists. Factions are written before locations so that a location's
controlling faction exists. Each aggregate is written in its own unit of
work; an aggregate whose id already exists is an error unless --replace
is given, in which case it is fully replaced.

Exit codes:
  0 - Every aggregate was written
  1 - An aggregate was rejected (duplicate id, constraint violation)
  2 - Command error (unreadable document, database won't open)

Examples:
  lorekeep import campaign.yaml --db ./saltmere.db
  lorekeep import campaign.yaml --replace --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace aggregates that already exist")

	return cmd
}

func runImport(ctx context.Context, opts *ImportOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, "failed to load document", err)
	}
	formatter.VerboseLog("Loaded %d aggregate(s) from %s", doc.Count(), path)

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	result := ImportResult{
		File:      path,
		Quests:    len(doc.Quests),
		NPCs:      len(doc.NPCs),
		Factions:  len(doc.Factions),
		Locations: len(doc.Locations),
	}

	// writeOne creates an aggregate, falling back to a full replace when the
	// id is taken and --replace is set.
	writeOne := func(kind, id string, create, update func() error) error {
		createErr := create()
		if createErr == nil {
			result.Created++
			formatter.VerboseLog("Created %s %s", kind, id)
			return nil
		}
		if !store.IsUniqueViolation(createErr) || !opts.Replace {
			return importFailure(formatter, kind, id, createErr)
		}
		if err := update(); err != nil {
			// The duplicate was inside the aggregate, not its id.
			if errors.Is(err, store.ErrNotFound) {
				return importFailure(formatter, kind, id, createErr)
			}
			return importFailure(formatter, kind, id, err)
		}
		result.Replaced++
		formatter.VerboseLog("Replaced %s %s", kind, id)
		return nil
	}

	quests := st.Quests()
	for _, q := range doc.Quests {
		if err := writeOne("quest", q.ID,
			func() error { return quests.Create(ctx, q) },
			func() error { return quests.Update(ctx, q) }); err != nil {
			return err
		}
	}

	npcs := st.NPCs()
	for _, n := range doc.NPCs {
		if err := writeOne("npc", n.ID,
			func() error { return npcs.Create(ctx, n) },
			func() error { return npcs.Update(ctx, n) }); err != nil {
			return err
		}
	}

	factions := st.Factions()
	for _, f := range doc.Factions {
		if err := writeOne("faction", f.ID,
			func() error { return factions.Create(ctx, f) },
			func() error { return factions.Update(ctx, f) }); err != nil {
			return err
		}
	}

	locations := st.Locations()
	for _, loc := range doc.Locations {
		if err := writeOne("location", loc.ID,
			func() error { return locations.Create(ctx, loc) },
			func() error { return locations.Update(ctx, loc) }); err != nil {
			return err
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Imported %s: %d quest(s), %d npc(s), %d faction(s), %d location(s) (%d created, %d replaced)\n",
		path, result.Quests, result.NPCs, result.Factions, result.Locations, result.Created, result.Replaced)
	return nil
}

func importFailure(formatter *OutputFormatter, kind, id string, err error) error {
	if store.IsUniqueViolation(err) {
		return formatter.Fail(ExitFailure, ErrCodeConstraint,
			fmt.Sprintf("%s %s already exists (use --replace)", kind, id), err)
	}
	if store.IsConstraintViolation(err) || errors.Is(err, store.ErrUngroupableValue) {
		return formatter.Fail(ExitFailure, ErrCodeConstraint, fmt.Sprintf("%s %s rejected", kind, id), err)
	}
	return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("failed to write %s %s", kind, id), err)
}
