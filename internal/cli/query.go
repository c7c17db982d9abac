package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
)

// ExecResult is the json payload of the exec command.
type ExecResult struct {
	RowsAffected int64 `json:"rows_affected"`
}

// NewQueryCommand creates the query command: a raw read against the store.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql> [args...]",
		Short: "Run a raw SQL query and print the rows",
		Long: `Run a raw SQL query against the knowledge base. Extra arguments bind
to the query's ? placeholders in order. Each row prints as a map of
column name to value (YAML in text mode).

Examples:
  lorekeep query "SELECT id, title FROM quests WHERE difficulty = ?" hard
  lorekeep query "SELECT COUNT(*) AS n FROM npcs" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), rootOpts, args[0], args[1:], cmd)
		},
	}
}

// NewExecCommand creates the exec command: a raw write against the store.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql> [args...]",
		Short: "Run a raw SQL statement and print the rows affected",
		Long: `Run a raw SQL statement against the knowledge base. Extra arguments
bind to the statement's ? placeholders in order. Writes made this way
bypass the aggregate mappers; foreign keys are still enforced.

Examples:
  lorekeep exec "UPDATE quests SET difficulty = ? WHERE id = ?" easy AB123`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), rootOpts, args[0], args[1:], cmd)
		},
	}
}

func runQuery(ctx context.Context, opts *RootOptions, query string, params []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.Query(ctx, query, bindArgs(params)...)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "query failed", err)
	}
	defer rows.Close()

	out, err := scanRowMaps(rows)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "reading rows failed", err)
	}
	formatter.VerboseLog("%d row(s)", len(out))

	return formatter.Document(out)
}

func runExec(ctx context.Context, opts *RootOptions, statement string, params []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := st.Exec(ctx, statement, bindArgs(params)...)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "statement failed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "rows affected unavailable", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ExecResult{RowsAffected: n})
	}
	return formatter.Success(fmt.Sprintf("%d row(s) affected", n))
}

func bindArgs(params []string) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}

// scanRowMaps reads every row into a column-name map. Text columns arrive
// as []byte from the driver and are turned into strings.
func scanRowMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
