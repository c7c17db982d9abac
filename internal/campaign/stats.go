package campaign

// Stats holds named numeric attributes (ability scores, hit points, ...).
type Stats map[string]int64
