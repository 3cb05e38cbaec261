package challenge

import "fmt"

// ConfigReason identifies which precondition a category table violates.
type ConfigReason int

const (
	// ReasonTooFewCategories means fewer than MinCategories were configured.
	ReasonTooFewCategories ConfigReason = iota
	// ReasonTooFewClips means a category holds fewer than MinClipsPerCategory clips.
	ReasonTooFewClips
	// ReasonEmptyName means a category name is blank.
	ReasonEmptyName
	// ReasonEmptyClip means a clip identifier is blank.
	ReasonEmptyClip
)

// ConfigError reports a category table that cannot produce challenges.
// It is fatal at startup; the challenge flow must not begin.
type ConfigError struct {
	Reason   ConfigReason
	Category string
	// Count is the offending count, or the clip index for ReasonEmptyClip.
	Count int
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch e.Reason {
	case ReasonTooFewCategories:
		return fmt.Sprintf("invalid categories: need at least %d categories, got %d", MinCategories, e.Count)
	case ReasonTooFewClips:
		return fmt.Sprintf("invalid categories: category %q needs at least %d clips, got %d", e.Category, MinClipsPerCategory, e.Count)
	case ReasonEmptyName:
		return "invalid categories: category name is empty"
	case ReasonEmptyClip:
		return fmt.Sprintf("invalid categories: category %q clip %d is empty", e.Category, e.Count)
	default:
		return "invalid categories"
	}
}
