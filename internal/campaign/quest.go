package campaign

// Quest is a quest aggregate: stages with their objectives, completion paths
// and decision points, plus twists, rewards and follow-up links.
type Quest struct {
	ID          string `json:"id" yaml:"id"` // two letters + three digits, e.g. "AB123"
	Title       string `json:"title" yaml:"title"`
	Type        string `json:"type" yaml:"type"`
	Difficulty  string `json:"difficulty" yaml:"difficulty"`
	Description string `json:"description" yaml:"description"`

	Stages []Stage  `json:"stages,omitempty" yaml:"stages,omitempty"` // ordered by Number
	Twists []string `json:"twists,omitempty" yaml:"twists,omitempty"`

	// Rewards and FollowUps are keyed by completion path name.
	Rewards   map[string][]string `json:"rewards,omitempty" yaml:"rewards,omitempty"`
	FollowUps map[string][]string `json:"follow_ups,omitempty" yaml:"follow_ups,omitempty"`

	RelatedQuests []string `json:"related_quests,omitempty" yaml:"related_quests,omitempty"`
	NPCs          []string `json:"npcs,omitempty" yaml:"npcs,omitempty"`
}

// Stage is one numbered step of a quest.
type Stage struct {
	Number      int    `json:"number" yaml:"number"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Objectives      []string                  `json:"objectives,omitempty" yaml:"objectives,omitempty"`
	CompletionPaths map[string]CompletionPath `json:"completion_paths,omitempty" yaml:"completion_paths,omitempty"`
	DecisionPoints  []DecisionPoint           `json:"decision_points,omitempty" yaml:"decision_points,omitempty"`
}

// CompletionPath describes one way of finishing a stage.
type CompletionPath struct {
	Description string `json:"description" yaml:"description"`
	Challenges  string `json:"challenges,omitempty" yaml:"challenges,omitempty"`
	Outcomes    string `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// DecisionPoint is a named choice the party faces during a stage.
type DecisionPoint struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Choices maps choice text to its consequence.
	Choices map[string]string `json:"choices,omitempty" yaml:"choices,omitempty"`
}
