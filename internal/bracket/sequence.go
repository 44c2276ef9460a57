package bracket

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one sequencer set of an HDR bracket: an exposure time and an
// optional analog gain.
type Step struct {
	ExposureUS uint32
	Gain       float64
}

// ParseSequence parses the camera's comma-separated "exposure[:gain]" form,
// e.g. "19:1.2,150". Gain defaults to 0. An empty string is an unused profile.
func ParseSequence(s string) ([]Step, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	steps := make([]Step, 0, len(parts))
	for i, part := range parts {
		expStr, gainStr, hasGain := strings.Cut(strings.TrimSpace(part), ":")

		exp, err := strconv.ParseUint(strings.TrimSpace(expStr), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: exposure %q", ErrInvalidConfiguration, i, expStr)
		}
		if exp == 0 {
			return nil, fmt.Errorf("%w: step %d: exposure must be positive", ErrInvalidConfiguration, i)
		}

		step := Step{ExposureUS: uint32(exp)}
		if hasGain {
			gain, err := strconv.ParseFloat(strings.TrimSpace(gainStr), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d: gain %q", ErrInvalidConfiguration, i, gainStr)
			}
			step.Gain = gain
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Exposures returns the exposure times of steps in order.
func Exposures(steps []Step) []uint32 {
	if len(steps) == 0 {
		return nil
	}
	out := make([]uint32, len(steps))
	for i, st := range steps {
		out[i] = st.ExposureUS
	}
	return out
}

// WithExposures returns a copy of steps with exposure times replaced by
// exposures, keeping each step's gain. It is used to push adjusted values back
// into a sequence string.
func WithExposures(steps []Step, exposures []uint32) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	for i := range out {
		if i < len(exposures) {
			out[i].ExposureUS = exposures[i]
		}
	}
	return out
}

// FormatSequence renders steps in the form accepted by ParseSequence. Zero
// gains are omitted.
func FormatSequence(steps []Step) string {
	var b strings.Builder
	for i, st := range steps {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(st.ExposureUS), 10))
		if st.Gain != 0 {
			b.WriteByte(':')
			b.WriteString(strconv.FormatFloat(st.Gain, 'g', -1, 64))
		}
	}
	return b.String()
}
