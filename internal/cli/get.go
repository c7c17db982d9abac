package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Print one aggregate",
		Long: `Print one aggregate with all of its nested collections.

Kinds: quest, npc, faction, location. Text output is YAML; json output
wraps the aggregate in the standard response envelope.

Exit codes:
  0 - Aggregate printed
  1 - No aggregate with that id
  2 - Command error

Examples:
  lorekeep get quest AB123
  lorekeep get location loc-saltmere --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runGet(ctx context.Context, opts *RootOptions, kindName, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	k, err := lookupKind(kindName)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadKind, err.Error(), nil)
	}

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	agg, err := k.get(ctx, st, id)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("failed to read %s %s", k.name, id), err)
	}
	if agg == nil {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("%s %s not found", k.name, id), nil)
	}

	return formatter.Document(agg)
}
