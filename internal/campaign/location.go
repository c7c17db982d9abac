package campaign

// Location is a place aggregate, subdivided into districts and areas.
type Location struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Region      string `json:"region,omitempty" yaml:"region,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	History     string `json:"history,omitempty" yaml:"history,omitempty"`
	DangerLevel string `json:"danger_level,omitempty" yaml:"danger_level,omitempty"`

	// ControllingFaction is the id of the faction in control, or "" for none.
	ControllingFaction string `json:"controlling_faction,omitempty" yaml:"controlling_faction,omitempty"`

	Features         []string          `json:"features,omitempty" yaml:"features,omitempty"`
	PointsOfInterest []PointOfInterest `json:"points_of_interest,omitempty" yaml:"points_of_interest,omitempty"`

	// Districts and Areas are keyed by district id and area id.
	Districts map[string]District `json:"districts,omitempty" yaml:"districts,omitempty"`
	Areas     map[string]Area     `json:"areas,omitempty" yaml:"areas,omitempty"`

	NPCs        []string `json:"npcs,omitempty" yaml:"npcs,omitempty"`
	Factions    []string `json:"factions,omitempty" yaml:"factions,omitempty"`
	Connections []string `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// PointOfInterest is a named landmark within a location.
type PointOfInterest struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// District is a named quarter of a settlement.
type District struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	NPCs        []string `json:"npcs,omitempty" yaml:"npcs,omitempty"`
}

// Area is an explorable part of a location (a dungeon level, a glade, ...).
type Area struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	Encounters  []string `json:"encounters,omitempty" yaml:"encounters,omitempty"`
	Treasures   []string `json:"treasures,omitempty" yaml:"treasures,omitempty"`
	NPCs        []string `json:"npcs,omitempty" yaml:"npcs,omitempty"`
}
