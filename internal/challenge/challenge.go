package challenge

// Challenge is one generated odd-one-out round. It is immutable: accessors
// return copies and regeneration replaces the whole value.
type Challenge struct {
	id              string
	sequence        [ClipsPerChallenge]string
	outlierPosition int
	majority        string
	outlier         string
}

// ID returns the challenge's unique identifier, used for logs and traces.
func (c Challenge) ID() string {
	return c.id
}

// Sequence returns the four clip identifiers in playback order.
func (c Challenge) Sequence() []string {
	out := make([]string, ClipsPerChallenge)
	copy(out, c.sequence[:])
	return out
}

// Clip returns the clip at position i (0-indexed).
func (c Challenge) Clip(i int) string {
	return c.sequence[i]
}

// OutlierPosition returns the 0-indexed position of the odd clip.
func (c Challenge) OutlierPosition() int {
	return c.outlierPosition
}

// MajorityCategory returns the category the three matching clips came from.
func (c Challenge) MajorityCategory() string {
	return c.majority
}

// OutlierCategory returns the category the odd clip came from.
func (c Challenge) OutlierCategory() string {
	return c.outlier
}

// CategoryAt returns the category the clip at position i was drawn from.
func (c Challenge) CategoryAt(i int) string {
	if i == c.outlierPosition {
		return c.outlier
	}
	return c.majority
}

// IsZero reports whether c is the zero Challenge (never generated).
func (c Challenge) IsZero() bool {
	return c.id == ""
}
