package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete an aggregate and everything it owns",
		Long: `Delete an aggregate together with every child row it owns.

Deleting a faction clears the controlling faction of the locations it
controlled. Deleting an id that does not exist is not an error.

Examples:
  lorekeep delete quest AB123
  lorekeep delete faction fac-hand --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), rootOpts, args[0], args[1], cmd)
		},
	}
}

func runDelete(ctx context.Context, opts *RootOptions, kindName, id string, cmd *cobra.Command) error {
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

	if err := k.delete(ctx, st, id); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("failed to delete %s %s", k.name, id), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"kind": k.name, "id": id})
	}
	return formatter.Success(fmt.Sprintf("Deleted %s %s", k.name, id))
}
