package bracket

import "errors"

var (
	// ErrInvalidConfiguration is returned when neither profile has any exposures.
	ErrInvalidConfiguration = errors.New("invalid hdr configuration")

	// ErrUnknownExposure is returned when a reported exposure time is not part of
	// the configured (possibly adjusted) profiles. The capture loop and the camera
	// sequencer are out of sync when this happens.
	ErrUnknownExposure = errors.New("unknown exposure time")

	// ErrInvalidFrameNumber is returned for a zero frame counter.
	ErrInvalidFrameNumber = errors.New("invalid frame number")

	// ErrNotConfigured is returned by a Synchronizer that has no profiles.
	ErrNotConfigured = errors.New("hdr profiles not configured")

	// ErrInvalidProfile is returned for a profile id other than 0 or 1.
	ErrInvalidProfile = errors.New("invalid hdr profile")
)
