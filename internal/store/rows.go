package store

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/lorekeep/internal/campaign"
	"github.com/roach88/lorekeep/internal/canon"
)

// concatSep separates values folded into one column by GROUP_CONCAT.
// It matches char(31) in the SQL.
const concatSep = "\x1f"

// queryStrings returns the single text column of every row. Returns nil
// when the query yields no rows.
func queryStrings(ctx context.Context, q dbtx, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// insertStrings executes query once per value with the key columns first.
func insertStrings(ctx context.Context, q dbtx, query string, key []any, values []string) error {
	for _, v := range values {
		args := make([]any, 0, len(key)+1)
		args = append(args, key...)
		args = append(args, v)
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %q: %w", v, err)
		}
	}
	return nil
}

// deleteFrom removes the rows of each table whose column matches id.
// Tables are processed in order, so callers list children before parents.
func deleteFrom(ctx context.Context, q dbtx, column, id string, tables ...string) error {
	for _, table := range tables {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+column+" = ?", id); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// execOne runs a single statement and maps "no row touched" to ErrNotFound.
func execOne(ctx context.Context, q dbtx, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// splitConcat unfolds a GROUP_CONCAT column back into a sorted set.
// NULL and the empty string both mean an empty set.
func splitConcat(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	parts := strings.Split(s.String, concatSep)
	sort.Strings(parts)
	return parts
}

// checkGrouped rejects values that splitConcat could not give back intact.
func checkGrouped(values []string) error {
	for _, v := range values {
		if v == "" || strings.Contains(v, concatSep) {
			return fmt.Errorf("%q: %w", v, ErrUngroupableValue)
		}
	}
	return nil
}

// sortedKeys returns the keys of m in ascending order, for deterministic
// statement order when decomposing maps.
func sortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}

// encodeStats renders stats as canonical JSON. Empty stats encode as "{}".
func encodeStats(st campaign.Stats) (string, error) {
	if len(st) == 0 {
		return "{}", nil
	}
	b, err := canon.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}
	return string(b), nil
}

// decodeStats parses a stats column. "{}" and "" decode to nil.
func decodeStats(data string) (campaign.Stats, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var st campaign.Stats
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return st, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
