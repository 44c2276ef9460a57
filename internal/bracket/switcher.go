package bracket

import "fmt"

// Switcher tracks a requested profile switch that has to be signalled to the
// camera, possibly more than once since a software signal can be missed.
type Switcher struct {
	target  ProfileID
	retries int
}

// RequestSwitch arms a switch to target, signalled up to retries times.
// A new request replaces a pending one.
func (w *Switcher) RequestSwitch(target ProfileID, retries int) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidProfile, target)
	}
	if retries <= 0 {
		return fmt.Errorf("retry count must be positive, got %d", retries)
	}
	w.target = target
	w.retries = retries
	return nil
}

// PendingSignal returns the profile to signal and consumes one retry. ok is
// false when nothing is pending.
func (w *Switcher) PendingSignal() (target ProfileID, ok bool) {
	if w.retries <= 0 {
		return Profile0, false
	}
	target = w.target
	w.retries--
	if w.retries == 0 {
		w.target = Profile0
	}
	return target, true
}

// Switching reports whether signals are still pending.
func (w *Switcher) Switching() bool {
	return w.retries > 0
}

// Reset drops any pending switch.
func (w *Switcher) Reset() {
	w.target = Profile0
	w.retries = 0
}
