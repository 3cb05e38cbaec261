// Package challenge generates odd-one-out audio challenges.
//
// A Challenge is four clip identifiers: three drawn from one category and one
// from another. The outlier is tracked by which draw produced it, so two
// categories sharing a literal clip path still yield a correct answer.
package challenge

import (
	"sort"
	"strings"
)

// ClipsPerChallenge is the length of every generated sequence.
const ClipsPerChallenge = 4

// majorityDraws is how many clips come from the majority category.
const majorityDraws = ClipsPerChallenge - 1

// MinCategories is the fewest categories a table may hold.
const MinCategories = 2

// MinClipsPerCategory is the fewest clips any category may hold. Every category
// can be picked as the majority side, which needs three distinct clips.
const MinClipsPerCategory = majorityDraws

// Categories maps a category name to its clip identifiers (paths, URLs or
// object keys, depending on the asset source).
type Categories map[string][]string

// Names returns the category names in sorted order.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy so callers cannot mutate a validated table.
func (c Categories) Clone() Categories {
	out := make(Categories, len(c))
	for name, clips := range c {
		out[name] = append([]string(nil), clips...)
	}
	return out
}

// ClipCount returns the total number of clip identifiers across categories.
func (c Categories) ClipCount() int {
	n := 0
	for _, clips := range c {
		n += len(clips)
	}
	return n
}

// Validate checks the table against the generator's preconditions.
// It returns a *ConfigError describing the first problem found.
func (c Categories) Validate() error {
	if len(c) < MinCategories {
		return &ConfigError{Reason: ReasonTooFewCategories, Count: len(c)}
	}
	for _, name := range c.Names() {
		if strings.TrimSpace(name) == "" {
			return &ConfigError{Reason: ReasonEmptyName}
		}
		clips := c[name]
		if len(clips) < MinClipsPerCategory {
			return &ConfigError{Reason: ReasonTooFewClips, Category: name, Count: len(clips)}
		}
		for i, clip := range clips {
			if strings.TrimSpace(clip) == "" {
				return &ConfigError{Reason: ReasonEmptyClip, Category: name, Count: i}
			}
		}
	}
	return nil
}
