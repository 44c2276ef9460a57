package camera

import (
	"time"

	"hdr-bracket-sync/internal/bracket"
)

// CameraID uniquely identifies a capture stream.
type CameraID string

// CameraState is the top-level in-memory representation of one camera's HDR
// synchronization state.
type CameraState struct {
	ID CameraID

	// SessionID changes on every successful configuration.
	SessionID    string
	ConfiguredAt time.Time

	// Steps as requested, before duplicate adjustment.
	Profile0 []bracket.Step
	Profile1 []bracket.Step

	Sync     *bracket.Synchronizer
	Switcher bracket.Switcher

	FramesProcessed uint64
}

// ConfigureRequest is the JSON body for configuring a camera's two profiles.
// Each profile can be given as an exposure list or in the camera's
// "exposure[:gain],..." sequence form; the list wins when both are set.
type ConfigureRequest struct {
	Profile0     []uint32 `json:"profile0,omitempty"`
	Profile1     []uint32 `json:"profile1,omitempty"`
	HDRSequence  string   `json:"hdr_sequence,omitempty"`
	HDRSequence2 string   `json:"hdr_sequence2,omitempty"`
}

// ConfigureResult carries the exposure values to program into the camera.
type ConfigureResult struct {
	SessionID            string   `json:"session_id"`
	AdjustedProfile0     []uint32 `json:"adjusted_profile0"`
	AdjustedProfile1     []uint32 `json:"adjusted_profile1"`
	AdjustedHDRSequence  string   `json:"adjusted_hdr_sequence"`
	AdjustedHDRSequence2 string   `json:"adjusted_hdr_sequence2"`
	Adjustments          int      `json:"adjustments"`
}

// FrameRequest is the JSON body for one captured frame.
type FrameRequest struct {
	FrameNumber uint64 `json:"frame_number"`
	ExposureUS  uint32 `json:"exposure_us"`
}

// FrameResult is the computed identity plus a pending profile switch signal,
// if any, for the capture loop to forward to the camera.
type FrameResult struct {
	bracket.FrameIdentity
	ProfileSwitched bool               `json:"profile_switched"`
	SwitchTo        *bracket.ProfileID `json:"switch_to,omitempty"`
}

// SwitchRequest asks for a profile switch to be signalled to the camera.
type SwitchRequest struct {
	Profile bracket.ProfileID `json:"profile"`
	Retries int               `json:"retries,omitempty"`
}

// Status is a read-only snapshot of a camera.
type Status struct {
	ID              CameraID           `json:"camera_id"`
	SessionID       string             `json:"session_id"`
	Configured      bool               `json:"configured"`
	ConfiguredAt    time.Time          `json:"configured_at"`
	CurrentProfile  *bracket.ProfileID `json:"current_profile,omitempty"`
	Profile0Size    int                `json:"profile0_size"`
	Profile1Size    int                `json:"profile1_size"`
	SwitchPending   bool               `json:"switch_pending"`
	FramesProcessed uint64             `json:"frames_processed"`
}
