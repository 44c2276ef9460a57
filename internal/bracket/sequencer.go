package bracket

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the logger used for profile switches and lenient fallbacks.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sequencer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLenientLookup makes ProcessFrame log an unknown exposure and report it at
// index 0 of the first configured profile instead of failing. The fallback identity is a guess, so
// this is only for capture loops that must never drop a frame.
func WithLenientLookup() Option {
	return func(s *Sequencer) {
		s.lenient = true
	}
}

// Sequencer derives a continuous master sequence from raw frame counters and
// reported exposure times. It holds the state of a single capture stream and
// is not safe for concurrent use.
type Sequencer struct {
	registry *Registry
	log      *slog.Logger
	lenient  bool

	started     bool
	lastProfile ProfileID
	lastIndex   int
	lastFrame   uint64
	offset      int64
}

// NewSequencer returns an unstarted Sequencer that resolves exposures with reg.
func NewSequencer(reg *Registry, opts ...Option) *Sequencer {
	s := &Sequencer{
		registry: reg,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessFrame returns the identity of the frame with the given counter and
// reported exposure time, and advances the stream state.
//
// Frame numbers may have gaps or arrive out of order. Within one profile the
// master sequence is ceil((frame + offset) / bracketSize). On a profile switch
// the offset is recomputed so the numbering continues across bracket sizes.
func (s *Sequencer) ProcessFrame(frame uint64, exposure uint32) (FrameIdentity, error) {
	if frame == 0 {
		return FrameIdentity{}, fmt.Errorf("%w: frame number must be greater than zero", ErrInvalidFrameNumber)
	}
	if frame > math.MaxInt64 {
		return FrameIdentity{}, fmt.Errorf("%w: frame number %d out of range", ErrInvalidFrameNumber, frame)
	}

	slot, err := s.registry.Lookup(exposure)
	if err != nil {
		if !s.lenient || !errors.Is(err, ErrUnknownExposure) {
			return FrameIdentity{}, err
		}
		s.log.Error("unknown exposure, using fallback identity",
			slog.Uint64("frame", frame),
			slog.Uint64("exposure_us", uint64(exposure)))
		slot = s.registry.FallbackSlot()
	}

	active := s.registry.Profile(slot.Profile)

	if s.started && slot.Profile != s.lastProfile {
		prev := s.registry.Profile(s.lastProfile)
		s.recalculateOffset(frame, prev, active, slot.Index)

		s.log.Info("profile switch",
			slog.Uint64("frame", frame),
			slog.Int("from", int(s.lastProfile)),
			slog.Int("to", int(slot.Profile)),
			slog.Int("index", slot.Index),
			slog.Int64("offset", s.offset))
	}

	master := active.MasterSequence(virtualPosition(frame, s.offset))
	if master < 0 {
		master = 0
	}

	s.started = true
	s.lastProfile = slot.Profile
	s.lastIndex = slot.Index
	s.lastFrame = frame

	return FrameIdentity{
		MasterSequence: uint64(master),
		BracketIndex:   slot.Index,
		BracketSize:    active.BracketSize(),
		ExposureValue:  exposure,
		Profile:        slot.Profile,
	}, nil
}

// recalculateOffset moves the offset so that frame lands in the new profile's
// bracket numbering right after the bracket prev would have assigned it, or
// inside it when the switch continues an unfinished bracket mid-cycle.
func (s *Sequencer) recalculateOffset(frame uint64, prev, next Profile, index int) {
	anchor := prev.MasterSequence(virtualPosition(frame, s.offset))
	midPrev := prev.BracketSize() > 1 && s.lastIndex < prev.BracketSize()-1

	w := int64(next.BracketSize())
	s.offset = anchor*w - int64(frame)

	for i := int64(0); i < w; i++ {
		if next.MasterSequence(virtualPosition(frame, s.offset)-1) != anchor {
			break
		}
		s.offset--
	}

	s.offset += int64(index)

	if midPrev && index == 0 && next.MasterSequence(virtualPosition(frame, s.offset)) == anchor {
		s.offset += w
	}
}

func virtualPosition(frame uint64, offset int64) int64 {
	return int64(frame) + offset
}

// Reset returns the sequencer to its unstarted state.
func (s *Sequencer) Reset() {
	s.started = false
	s.lastProfile = Profile0
	s.lastIndex = 0
	s.lastFrame = 0
	s.offset = 0
}

// Started reports whether a frame has been processed since the last reset.
func (s *Sequencer) Started() bool {
	return s.started
}

// LastProfile returns the profile of the last processed frame. ok is false
// before the first frame.
func (s *Sequencer) LastProfile() (id ProfileID, ok bool) {
	return s.lastProfile, s.started
}

// LastFrame returns the counter of the last processed frame, 0 if unstarted.
func (s *Sequencer) LastFrame() uint64 {
	return s.lastFrame
}

// Offset returns the current correction added to raw frame counters.
func (s *Sequencer) Offset() int64 {
	return s.offset
}
