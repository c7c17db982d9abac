package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ListResult is the json payload of the list command.
type ListResult struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List the ids of every aggregate of a kind",
		Long: `List the ids of every aggregate of a kind, in ascending order.

Examples:
  lorekeep list quests
  lorekeep list faction --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runList(ctx context.Context, opts *RootOptions, kindName string, cmd *cobra.Command) error {
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

	ids, err := k.list(ctx, st)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("failed to list %ss", k.name), err)
	}

	if formatter.Format == "json" {
		if ids == nil {
			ids = []string{}
		}
		return formatter.Success(ListResult{Kind: k.name, IDs: ids})
	}
	if len(ids) == 0 {
		fmt.Fprintf(formatter.Writer, "No %ss found.\n", k.name)
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(formatter.Writer, id)
	}
	return nil
}
