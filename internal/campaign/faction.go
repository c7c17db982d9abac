package campaign

import "strings"

// Faction is an organisation aggregate with its leadership and members.
type Faction struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Alignment    string `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	PublicGoal   string `json:"public_goal,omitempty" yaml:"public_goal,omitempty"`
	TrueGoal     string `json:"true_goal,omitempty" yaml:"true_goal,omitempty"`
	Headquarters string `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	Territory    string `json:"territory,omitempty" yaml:"territory,omitempty"`
	History      string `json:"history,omitempty" yaml:"history,omitempty"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Resources []string `json:"resources,omitempty" yaml:"resources,omitempty"` // ordered
	Leaders   []Leader `json:"leaders,omitempty" yaml:"leaders,omitempty"`     // unique by Name
	Members   []Member `json:"members,omitempty" yaml:"members,omitempty"`     // unique by Name

	Allies  []string `json:"allies,omitempty" yaml:"allies,omitempty"`
	Enemies []string `json:"enemies,omitempty" yaml:"enemies,omitempty"`
	Quests  []string `json:"quests,omitempty" yaml:"quests,omitempty"`
}

// Leader is a member of a faction's leadership.
//
// Hidden is derived from Role when the leader is written (see IsHiddenRole)
// and is only meaningful on values read back from the store.
type Leader struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Secret      string `json:"secret,omitempty" yaml:"secret,omitempty"`
	Stats       Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
	Bio         string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Hidden      bool   `json:"hidden" yaml:"-"`
}

// Member is a rank-and-file faction member.
type Member struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsHiddenRole reports whether a leader role marks the leader as hidden:
// the role text contains "hidden", case-insensitively.
func IsHiddenRole(role string) bool {
	return strings.Contains(strings.ToLower(role), "hidden")
}
