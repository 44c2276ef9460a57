package bracket

import (
	"fmt"
	"log/slog"
)

// Synchronizer owns the configuration and sequencing state of one capture
// stream. Configure replaces both at once; callers never observe a registry
// from one configuration paired with state from another.
//
// A Synchronizer is not safe for concurrent use.
type Synchronizer struct {
	log     *slog.Logger
	opts    []Option
	reg     *Registry
	seq     *Sequencer
	adjust0 []uint32
	adjust1 []uint32
}

// NewSynchronizer returns an unconfigured Synchronizer. opts are applied to
// every Sequencer it creates.
func NewSynchronizer(log *slog.Logger, opts ...Option) *Synchronizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		log:  log,
		opts: append([]Option{WithLogger(log)}, opts...),
	}
}

// Configure builds a new registry from the two profiles and starts a fresh
// sequence. It returns the exposure lists to program into the camera. On
// error the Synchronizer is left unconfigured.
func (s *Synchronizer) Configure(profile0, profile1 []uint32) (adjusted0, adjusted1 []uint32, err error) {
	reg, err := Build(profile0, profile1)
	if err != nil {
		s.Reset()
		return nil, nil, err
	}

	for _, adj := range reg.Adjustments() {
		s.log.Warn("duplicate exposure adjusted",
			slog.Uint64("exposure_us", uint64(adj.Original)),
			slog.Int("profile1_index", adj.Profile1Index),
			slog.Uint64("adjusted_us", uint64(adj.Adjusted)))
	}

	s.reg = reg
	s.seq = NewSequencer(reg, s.opts...)
	s.adjust0, s.adjust1 = reg.Adjusted()

	s.log.Info("hdr profiles configured",
		slog.Int("profile0_size", reg.BracketSize(Profile0)),
		slog.Int("profile1_size", reg.BracketSize(Profile1)))

	return s.Adjusted()
}

// ProcessFrame computes the identity of one frame.
func (s *Synchronizer) ProcessFrame(frame uint64, exposure uint32) (FrameIdentity, error) {
	if s.seq == nil {
		return FrameIdentity{}, fmt.Errorf("%w: frame %d", ErrNotConfigured, frame)
	}
	return s.seq.ProcessFrame(frame, exposure)
}

// Reset discards the sequencing state together with the configured and
// adjusted profiles. Configure must be called again before ProcessFrame.
func (s *Synchronizer) Reset() {
	s.reg = nil
	s.seq = nil
	s.adjust0 = nil
	s.adjust1 = nil
}

// Configured reports whether profiles are configured.
func (s *Synchronizer) Configured() bool {
	return s.reg != nil
}

// CurrentProfile returns the profile of the most recent frame. ok is false
// when unconfigured or before the first frame.
func (s *Synchronizer) CurrentProfile() (id ProfileID, ok bool) {
	if s.seq == nil {
		return Profile0, false
	}
	return s.seq.LastProfile()
}

// BracketSize returns the bracket size of profile id, 0 when unconfigured.
func (s *Synchronizer) BracketSize(id ProfileID) int {
	return s.reg.BracketSize(id)
}

// Adjusted returns copies of the exposure lists last returned by Configure.
func (s *Synchronizer) Adjusted() (profile0, profile1 []uint32, err error) {
	if s.reg == nil {
		return nil, nil, ErrNotConfigured
	}
	return append([]uint32(nil), s.adjust0...), append([]uint32(nil), s.adjust1...), nil
}
