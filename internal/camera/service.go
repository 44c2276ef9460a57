package camera

import (
	"hdr-bracket-sync/internal/bracket"
)

// DefaultSwitchRetries is how many frames carry a switch signal when a
// request does not say.
const DefaultSwitchRetries = 1

// Service turns API requests into repository calls.
type Service struct {
	repo          Repository
	switchRetries int
}

// NewService returns a Service that uses repo. If switchRetries <= 0,
// DefaultSwitchRetries is used.
func NewService(repo Repository, switchRetries int) *Service {
	if switchRetries <= 0 {
		switchRetries = DefaultSwitchRetries
	}
	return &Service{repo: repo, switchRetries: switchRetries}
}

// Configure sets both profiles of a camera from req and returns the values to
// program into the camera's sequencer.
func (s *Service) Configure(id CameraID, req ConfigureRequest) (ConfigureResult, error) {
	profile0, err := stepsFrom(req.Profile0, req.HDRSequence)
	if err != nil {
		return ConfigureResult{}, err
	}
	profile1, err := stepsFrom(req.Profile1, req.HDRSequence2)
	if err != nil {
		return ConfigureResult{}, err
	}
	return s.repo.Configure(id, profile0, profile1)
}

// ProcessFrame computes the identity of one frame.
func (s *Service) ProcessFrame(id CameraID, req FrameRequest) (FrameResult, error) {
	return s.repo.ProcessFrame(id, req.FrameNumber, req.ExposureUS)
}

// RequestSwitch arms a profile switch signal.
func (s *Service) RequestSwitch(id CameraID, req SwitchRequest) error {
	retries := req.Retries
	if retries <= 0 {
		retries = s.switchRetries
	}
	return s.repo.RequestSwitch(id, req.Profile, retries)
}

// Reset clears a camera's configuration and sequence.
func (s *Service) Reset(id CameraID) error {
	return s.repo.Reset(id)
}

// Remove forgets a camera.
func (s *Service) Remove(id CameraID) error {
	return s.repo.Remove(id)
}

// Status returns a snapshot of a camera.
func (s *Service) Status(id CameraID) (Status, bool) {
	return s.repo.Status(id)
}

// stepsFrom prefers an explicit exposure list over a sequence string.
func stepsFrom(exposures []uint32, sequence string) ([]bracket.Step, error) {
	if len(exposures) == 0 {
		return bracket.ParseSequence(sequence)
	}
	steps := make([]bracket.Step, len(exposures))
	for i, exp := range exposures {
		steps[i] = bracket.Step{ExposureUS: exp}
	}
	return steps, nil
}
