package campaign

// NPC is a non-player character aggregate.
type NPC struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Race       string `json:"race,omitempty" yaml:"race,omitempty"`
	Gender     string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Occupation string `json:"occupation,omitempty" yaml:"occupation,omitempty"`
	Role       string `json:"role,omitempty" yaml:"role,omitempty"`
	Quirk      string `json:"quirk,omitempty" yaml:"quirk,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	Motivation string `json:"motivation,omitempty" yaml:"motivation,omitempty"`
	Secret     string `json:"secret,omitempty" yaml:"secret,omitempty"`
	Stats      Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`

	Descriptions  []string       `json:"descriptions,omitempty" yaml:"descriptions,omitempty"` // ordered
	Traits        []string       `json:"traits,omitempty" yaml:"traits,omitempty"`
	Quests        []QuestLink    `json:"quests,omitempty" yaml:"quests,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Locations     []LocationLink `json:"locations,omitempty" yaml:"locations,omitempty"`
	Items         []string       `json:"items,omitempty" yaml:"items,omitempty"`
}

// QuestLink associates an NPC with a quest.
type QuestLink struct {
	QuestID     string `json:"quest_id" yaml:"quest_id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Relationship links an NPC to another NPC.
type Relationship struct {
	NPCID       string `json:"npc_id" yaml:"npc_id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// LocationLink associates an NPC with a location.
type LocationLink struct {
	LocationID  string `json:"location_id" yaml:"location_id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
