// Package runner drives one challenge session: it plays the current
// challenge's clips in order behind a masking tone, reports progress as
// status text, and evaluates answers against a bounded-attempt policy.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/oddear/internal/assets"
	"github.com/zjrosen/oddear/internal/challenge"
	"github.com/zjrosen/oddear/internal/log"
	"github.com/zjrosen/oddear/internal/sound"
	"github.com/zjrosen/oddear/internal/tracing"
)

// Timing holds the fixed pauses of a session.
type Timing struct {
	// InterClipPause follows every clip, whatever its outcome.
	InterClipPause time.Duration
	// FetchErrorDelay stands in for playback when a clip could not be retrieved.
	FetchErrorDelay time.Duration
	// RegenerateDelay is how long a wrong answer stays visible before a new
	// challenge replaces it.
	RegenerateDelay time.Duration
}

// DefaultTiming returns the standard pauses.
func DefaultTiming() Timing {
	return Timing{
		InterClipPause:  300 * time.Millisecond,
		FetchErrorDelay: 500 * time.Millisecond,
		RegenerateDelay: 1000 * time.Millisecond,
	}
}

// Masking tone and speed jitter defaults.
const (
	DefaultToneFrequency = 60.0
	DefaultToneGain      = 0.02
	DefaultSpeedJitter   = 0.05
)

// Sleeper waits for a duration or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// realSleeper implements Sleeper with timers.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StatusSink receives every status change in order.
type StatusSink func(status string)

// Config wires a Runner to its collaborators.
type Config struct {
	Categories challenge.Categories
	Source     assets.Source
	Output     sound.Output

	// Optional; zero values take defaults.
	Generator     *challenge.Generator
	Timing        *Timing
	ToneFrequency float64
	ToneGain      float64
	Sleeper       Sleeper
	OnStatus      StatusSink
	Tracer        trace.Tracer

	// SpeedJitter bounds the playback-rate deviation; 0 plays at natural speed.
	SpeedJitter float64
	// Float64 returns values in [0,1) for the speed perturbation.
	Float64 func() float64
}

// Runner owns one session's attempt state and outcome.
type Runner struct {
	categories challenge.Categories
	source     assets.Source
	output     sound.Output
	generator  *challenge.Generator
	timing     Timing
	toneFreq   float64
	toneGain   float64
	jitter     float64
	sleeper    Sleeper
	randFloat  func() float64
	onStatus   StatusSink
	tracer     trace.Tracer

	playing atomic.Bool

	mu       sync.Mutex
	current  challenge.Challenge
	attempts int
	outcome  Outcome
	reveal   bool
	status   string
}

// New validates the categories, generates the first challenge and returns
// a Runner in the InProgress state.
func New(cfg Config) (*Runner, error) {
	if cfg.Source == nil {
		return nil, errors.New("runner: asset source is required")
	}
	if cfg.Output == nil {
		return nil, errors.New("runner: audio output is required")
	}
	if err := cfg.Categories.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		categories: cfg.Categories.Clone(),
		source:     cfg.Source,
		output:     cfg.Output,
		generator:  cfg.Generator,
		timing:     DefaultTiming(),
		toneFreq:   cfg.ToneFrequency,
		toneGain:   cfg.ToneGain,
		jitter:     cfg.SpeedJitter,
		sleeper:    cfg.Sleeper,
		randFloat:  cfg.Float64,
		onStatus:   cfg.OnStatus,
		tracer:     cfg.Tracer,
	}
	if cfg.Timing != nil {
		r.timing = *cfg.Timing
	}
	if r.generator == nil {
		r.generator = challenge.NewGenerator()
	}
	if r.toneFreq <= 0 {
		r.toneFreq = DefaultToneFrequency
	}
	if r.toneGain <= 0 {
		r.toneGain = DefaultToneGain
	}
	if r.jitter < 0 {
		r.jitter = 0
	}
	if r.sleeper == nil {
		r.sleeper = realSleeper{}
	}
	if r.randFloat == nil {
		r.randFloat = rand.Float64
	}
	if r.tracer == nil {
		r.tracer = tracing.Tracer()
	}

	c, err := r.generator.Generate(r.categories)
	if err != nil {
		return nil, err
	}
	r.current = c
	log.Debug(log.CatChallenge, "Generated challenge", "id", c.ID(),
		"majority", c.MajorityCategory(), "outlier", c.OutlierCategory())
	return r, nil
}

// Current returns the challenge being played.
func (r *Runner) Current() challenge.Challenge {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Snapshot returns the state the UI renders.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		ChallengeID: r.current.ID(),
		Status:      r.status,
		Attempts:    AttemptState{Used: r.attempts, Max: MaxAttempts},
		Outcome:     r.outcome,
		Reveal:      r.reveal,
		Playing:     r.playing.Load(),
	}
	if r.reveal {
		s.RevealedPosition = r.current.OutlierPosition() + 1
	}
	return s
}

// Timing returns the pauses in effect.
func (r *Runner) Timing() Timing {
	return r.timing
}

func (r *Runner) setStatus(status string) {
	r.mu.Lock()
	r.status = status
	r.mu.Unlock()
	if r.onStatus != nil {
		r.onStatus(status)
	}
}

// Play plays the current challenge. Clips are strictly sequential; the
// masking tone starts before the first clip and stops after the last one,
// also when ctx is cancelled. Retrieval, decode and playback failures of a
// single clip are reported in the Report and never abort the sequence.
func (r *Runner) Play(ctx context.Context) (Report, error) {
	r.mu.Lock()
	outcome := r.outcome
	ch := r.current
	r.mu.Unlock()
	if outcome.Terminal() {
		return Report{}, ErrSessionOver
	}
	if !r.playing.CompareAndSwap(false, true) {
		return Report{}, ErrPlaybackInProgress
	}
	defer r.playing.Store(false)

	ctx, span := r.tracer.Start(ctx, "captcha.play",
		trace.WithAttributes(attribute.String("challenge.id", ch.ID())))
	defer span.End()

	report := Report{ChallengeID: ch.ID()}
	r.setStatus(StatusPlaying)

	tone := r.output.Tone(r.toneFreq, r.toneGain)
	if err := tone.Start(); err != nil {
		log.ErrorErr(log.CatAudio, "Masking tone failed to start", err)
	}
	stopTone := func() {
		if err := tone.Stop(); err != nil {
			log.ErrorErr(log.CatAudio, "Masking tone failed to stop", err)
		}
	}

	clips := ch.Sequence()
	for i, clip := range clips {
		if err := ctx.Err(); err != nil {
			stopTone()
			return r.abort(span, report, err)
		}
		r.setStatus(fmt.Sprintf(statusPlayingClip, i+1, len(clips)))
		step, err := r.playClip(ctx, i, clip)
		report.Steps = append(report.Steps, step)
		if err == nil {
			err = r.sleeper.Sleep(ctx, r.timing.InterClipPause)
		}
		if err != nil {
			stopTone()
			return r.abort(span, report, err)
		}
	}

	stopTone()
	r.setStatus(StatusPrompt)
	log.Info(log.CatChallenge, "Played challenge", "id", ch.ID(), "steps", len(report.Steps))
	return report, nil
}

func (r *Runner) abort(span trace.Span, report Report, err error) (Report, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "playback cancelled")
	log.Warn(log.CatChallenge, "Playback cancelled", "id", report.ChallengeID, "steps", len(report.Steps))
	return report, err
}

// playClip handles one clip. The returned error is non-nil only when ctx
// ended during the clip.
func (r *Runner) playClip(ctx context.Context, pos int, clip string) (Step, error) {
	ctx, span := r.tracer.Start(ctx, "captcha.clip",
		trace.WithAttributes(attribute.Int("clip.position", pos+1)))
	defer span.End()

	step := Step{Position: pos, Clip: clip}
	finish := func(res StepResult, err error) {
		step.Result = res
		step.Err = err
		span.SetAttributes(attribute.String("clip.result", res.String()))
		if err != nil {
			span.RecordError(err)
		}
	}

	data, err := r.source.Fetch(ctx, clip)
	if err != nil {
		log.ErrorErr(log.CatAssets, "Fetch failed", err, "clip", clip)
		finish(StepFetchFailed, err)
		r.setStatus(fmt.Sprintf(statusFetchFailed, clip))
		return step, r.sleeper.Sleep(ctx, r.timing.FetchErrorDelay)
	}

	buf, err := r.output.Decode(ctx, data)
	if err != nil {
		log.ErrorErr(log.CatAudio, "Decoding failed", err, "clip", clip)
		finish(StepDecodeFailed, err)
		r.setStatus(StatusDecodeFailed)
		return step, nil
	}

	step.Speed = 1 + (r.randFloat()*2-1)*r.jitter
	span.SetAttributes(attribute.Float64("clip.speed", step.Speed))
	if err := r.output.Play(ctx, buf, step.Speed); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			finish(StepPlayFailed, err)
			return step, ctxErr
		}
		log.ErrorErr(log.CatAudio, "Playback failed", err, "clip", clip)
		finish(StepPlayFailed, err)
		return step, nil
	}
	finish(StepPlayed, nil)
	return step, nil
}

// ParseAnswer converts 1-indexed answer text to a 0-indexed position.
// Only the base-10 integers 1 to 4, optionally surrounded by whitespace,
// are accepted.
func ParseAnswer(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > challenge.ClipsPerChallenge {
		return 0, false
	}
	return n - 1, true
}

// Submit evaluates an answer. Invalid text consumes no attempt. A correct
// answer ends the session in Success; the third wrong answer ends it in
// Blocked and reveals the odd clip. Other wrong answers ask the caller to
// Regenerate after Result.RegenerateAfter.
func (r *Runner) Submit(ctx context.Context, text string) (Result, error) {
	_, span := r.tracer.Start(ctx, "captcha.submit")
	defer span.End()

	r.mu.Lock()
	if r.outcome.Terminal() {
		r.mu.Unlock()
		return Result{}, ErrSessionOver
	}

	var (
		res    Result
		status string
	)
	pos, ok := ParseAnswer(text)
	switch {
	case !ok:
		res.Verdict = VerdictInvalid
		status = StatusInvalid
	case pos == r.current.OutlierPosition():
		res.Verdict = VerdictCorrect
		r.outcome = Success
		status = StatusCorrect
	default:
		r.attempts++
		left := AttemptState{Used: r.attempts, Max: MaxAttempts}.Remaining()
		if left == 0 {
			res.Verdict = VerdictBlocked
			r.outcome = Blocked
			r.reveal = true
			res.RevealedPosition = r.current.OutlierPosition() + 1
			status = fmt.Sprintf(statusBlocked, r.attempts, MaxAttempts)
		} else {
			res.Verdict = VerdictRetry
			res.RegenerateAfter = r.timing.RegenerateDelay
			status = fmt.Sprintf(statusWrong, left)
		}
	}
	res.Attempts = AttemptState{Used: r.attempts, Max: MaxAttempts}
	id := r.current.ID()
	r.mu.Unlock()

	span.SetAttributes(
		attribute.String("challenge.id", id),
		attribute.String("answer.verdict", res.Verdict.String()),
		attribute.Int("attempts.used", res.Attempts.Used),
	)
	log.Info(log.CatChallenge, "Answer evaluated", "id", id,
		"verdict", res.Verdict.String(), "attempts", res.Attempts.Used)
	r.setStatus(status)
	return res, nil
}

// Regenerate replaces the challenge and clears the status and reveal flag.
// It does nothing once the session is over.
func (r *Runner) Regenerate() error {
	r.mu.Lock()
	if r.outcome.Terminal() {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	c, err := r.generator.Generate(r.categories)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.outcome.Terminal() {
		r.mu.Unlock()
		return nil
	}
	r.current = c
	r.reveal = false
	r.mu.Unlock()

	log.Debug(log.CatChallenge, "Regenerated challenge", "id", c.ID(),
		"majority", c.MajorityCategory(), "outlier", c.OutlierCategory())
	r.setStatus("")
	return nil
}
