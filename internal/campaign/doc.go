// Package campaign defines the aggregate types of the campaign knowledge base.
//
// This package contains type definitions only. It imports nothing internal, so
// both the store and the CLI can depend on it.
//
// Four aggregate roots exist: Quest, NPC, Faction and Location. Each owns
// nested collections (stages, leaders, districts, ...) and carries reference
// collections of foreign ids (related quests, allies, connections, ...).
//
// Conventions:
//   - All JSON and YAML tags use snake_case
//   - Empty collections are nil, never empty non-nil values
//   - Set-valued collections carry no meaningful order
//   - Stages, NPC descriptions and faction resources are ordered
package campaign
