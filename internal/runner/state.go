package runner

import (
	"errors"
	"time"
)

// MaxAttempts is the number of wrong answers that ends a session.
const MaxAttempts = 3

var (
	// ErrPlaybackInProgress is returned by Play while a sequence is running.
	ErrPlaybackInProgress = errors.New("playback already in progress")
	// ErrSessionOver is returned once the session reached Success or Blocked.
	ErrSessionOver = errors.New("session is over")
)

// User-visible status texts.
const (
	StatusPlaying      = "Playing sounds..."
	StatusPrompt       = "Enter the number of the odd sound (1–4) and submit."
	StatusInvalid      = "Please enter a number between 1 and 4."
	StatusCorrect      = "Correct!"
	StatusDecodeFailed = "Could not decode one of the sound files."

	statusPlayingClip = "Playing sound %d of %d"
	statusFetchFailed = "Error playing %s"
	statusWrong       = "Wrong. %d attempts left. Try again."
	statusBlocked     = "%d/%d wrong. Access blocked."
)

// Outcome is the session's overall state.
type Outcome int

const (
	InProgress Outcome = iota
	Success
	Blocked
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in-progress"
	case Success:
		return "success"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further challenges follow.
func (o Outcome) Terminal() bool {
	return o == Success || o == Blocked
}

// AttemptState counts wrong answers.
type AttemptState struct {
	Used int
	Max  int
}

// Remaining returns how many wrong answers are still allowed.
func (a AttemptState) Remaining() int {
	return max(a.Max-a.Used, 0)
}

// Verdict is the evaluation of one submitted answer.
type Verdict int

const (
	// VerdictInvalid means the text was not a number from 1 to 4. No attempt
	// is consumed.
	VerdictInvalid Verdict = iota
	VerdictCorrect
	// VerdictRetry means a wrong answer with attempts left; the caller should
	// call Regenerate after Result.RegenerateAfter.
	VerdictRetry
	VerdictBlocked
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictInvalid:
		return "invalid"
	case VerdictCorrect:
		return "correct"
	case VerdictRetry:
		return "retry"
	case VerdictBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Result is returned by Submit.
type Result struct {
	Verdict         Verdict
	Attempts        AttemptState
	RegenerateAfter time.Duration
	// RevealedPosition is the 1-indexed odd clip, set only for VerdictBlocked.
	RevealedPosition int
}

// Snapshot is a read-only view of the session for presentation.
type Snapshot struct {
	ChallengeID string
	Status      string
	Attempts    AttemptState
	Outcome     Outcome
	Reveal      bool
	// RevealedPosition is the 1-indexed odd clip when Reveal is set, else 0.
	RevealedPosition int
	Playing          bool
}

// StepResult describes what happened to one clip during playback.
type StepResult int

const (
	StepPlayed StepResult = iota
	StepFetchFailed
	StepDecodeFailed
	StepPlayFailed
)

// String returns the step result name.
func (s StepResult) String() string {
	switch s {
	case StepPlayed:
		return "played"
	case StepFetchFailed:
		return "fetch_failed"
	case StepDecodeFailed:
		return "decode_failed"
	case StepPlayFailed:
		return "play_failed"
	default:
		return "unknown"
	}
}

// Step records one clip of a playback sequence.
type Step struct {
	Position int
	Clip     string
	Result   StepResult
	// Speed is the playback rate used, 0 when the clip was not played.
	Speed float64
	Err   error
}

// Report lists the steps of one playback sequence in order.
type Report struct {
	ChallengeID string
	Steps       []Step
}
