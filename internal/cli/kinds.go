package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/lorekeep/internal/store"
)

// kind binds an aggregate name on the command line to its mapper.
type kind struct {
	name   string
	get    func(ctx context.Context, st *store.Store, id string) (any, error)
	list   func(ctx context.Context, st *store.Store) ([]string, error)
	delete func(ctx context.Context, st *store.Store, id string) error
}

// Kinds lists the aggregate kinds accepted by get, list and delete.
var Kinds = []string{"quest", "npc", "faction", "location"}

var kinds = map[string]kind{
	"quest": {
		name: "quest",
		get: func(ctx context.Context, st *store.Store, id string) (any, error) {
			q, err := st.Quests().Get(ctx, id)
			if err != nil || q == nil {
				return nil, err
			}
			return q, nil
		},
		list:   func(ctx context.Context, st *store.Store) ([]string, error) { return st.Quests().List(ctx) },
		delete: func(ctx context.Context, st *store.Store, id string) error { return st.Quests().Delete(ctx, id) },
	},
	"npc": {
		name: "npc",
		get: func(ctx context.Context, st *store.Store, id string) (any, error) {
			n, err := st.NPCs().Get(ctx, id)
			if err != nil || n == nil {
				return nil, err
			}
			return n, nil
		},
		list:   func(ctx context.Context, st *store.Store) ([]string, error) { return st.NPCs().List(ctx) },
		delete: func(ctx context.Context, st *store.Store, id string) error { return st.NPCs().Delete(ctx, id) },
	},
	"faction": {
		name: "faction",
		get: func(ctx context.Context, st *store.Store, id string) (any, error) {
			f, err := st.Factions().Get(ctx, id)
			if err != nil || f == nil {
				return nil, err
			}
			return f, nil
		},
		list:   func(ctx context.Context, st *store.Store) ([]string, error) { return st.Factions().List(ctx) },
		delete: func(ctx context.Context, st *store.Store, id string) error { return st.Factions().Delete(ctx, id) },
	},
	"location": {
		name: "location",
		get: func(ctx context.Context, st *store.Store, id string) (any, error) {
			loc, err := st.Locations().Get(ctx, id)
			if err != nil || loc == nil {
				return nil, err
			}
			return loc, nil
		},
		list:   func(ctx context.Context, st *store.Store) ([]string, error) { return st.Locations().List(ctx) },
		delete: func(ctx context.Context, st *store.Store, id string) error { return st.Locations().Delete(ctx, id) },
	},
}

// lookupKind resolves a kind name; plurals and any case are accepted.
func lookupKind(name string) (kind, error) {
	key := strings.ToLower(name)
	if k, ok := kinds[key]; ok {
		return k, nil
	}
	if k, ok := kinds[strings.TrimSuffix(key, "s")]; ok {
		return k, nil
	}
	return kind{}, fmt.Errorf("unknown kind %q: must be one of %v", name, Kinds)
}
