package bracket

import (
	"fmt"
	"math"
	"slices"
)

// Profile is an ordered list of exposure times (µs) the sensor cycles through.
// An empty profile is unused.
type Profile struct {
	exposures []uint32
}

// NewProfile copies exposures into a Profile.
func NewProfile(exposures []uint32) Profile {
	return Profile{exposures: slices.Clone(exposures)}
}

// BracketSize returns the number of exposures in one bracket.
func (p Profile) BracketSize() int {
	return len(p.exposures)
}

// Exposures returns a copy of the profile's exposure list.
func (p Profile) Exposures() []uint32 {
	return slices.Clone(p.exposures)
}

// MasterSequence maps a virtual frame position onto this profile's bracket
// number: the ceiling of v / BracketSize. An unused profile always yields 0.
func (p Profile) MasterSequence(v int64) int64 {
	w := int64(p.BracketSize())
	if w == 0 {
		return 0
	}
	m := v / w
	if v%w > 0 {
		m++
	}
	return m
}

// Adjustment records a profile 1 exposure that collided with profile 0 and was
// moved to a free value.
type Adjustment struct {
	Profile1Index int
	Original      uint32
	Adjusted      uint32
}

// Registry maps reported exposure times to their (profile, index) slot.
// It is immutable after Build and safe for concurrent reads. The zero Registry
// is empty and every lookup fails.
type Registry struct {
	profiles    [2]Profile
	adjusted1   []uint32
	adjustments []Adjustment
	slots       map[uint32]Slot
}

// Build creates a Registry from the two profiles' exposure lists. Either list
// may be empty, but not both.
//
// A value present in both profiles stays with profile 0; profile 1's entry is
// moved to the smallest free value above it. The adjusted profile 1 list is
// available from Adjusted so it can be programmed into the camera, which then
// reports the adjusted value back. Build fails if no free value fits in 32
// bits. Duplicates within a single profile are not resolved.
func Build(profile0, profile1 []uint32) (*Registry, error) {
	if len(profile0) == 0 && len(profile1) == 0 {
		return nil, fmt.Errorf("%w: both profiles are empty", ErrInvalidConfiguration)
	}

	r := &Registry{
		profiles:  [2]Profile{NewProfile(profile0), NewProfile(profile1)},
		adjusted1: slices.Clone(profile1),
		slots:     make(map[uint32]Slot, len(profile0)+len(profile1)),
	}

	for i, exp := range profile0 {
		r.slots[exp] = Slot{Profile: Profile0, Index: i}
	}
	for i, exp := range profile1 {
		r.slots[exp] = Slot{Profile: Profile1, Index: i}
	}

	if err := r.resolveDuplicates(profile0, profile1); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) resolveDuplicates(profile0, profile1 []uint32) error {
	resolved := make(map[uint32]bool)
	for _, exp := range profile1 {
		if resolved[exp] {
			continue
		}
		i0 := slices.Index(profile0, exp)
		if i0 < 0 {
			continue
		}
		resolved[exp] = true
		i1 := slices.Index(profile1, exp)

		adjusted := exp
		for {
			if _, taken := r.slots[adjusted]; !taken {
				break
			}
			if adjusted == math.MaxUint32 {
				return fmt.Errorf("%w: no free exposure above %dµs for profile 1 index %d", ErrInvalidConfiguration, exp, i1)
			}
			adjusted++
		}

		r.slots[exp] = Slot{Profile: Profile0, Index: i0}
		r.slots[adjusted] = Slot{Profile: Profile1, Index: i1}
		r.adjusted1[i1] = adjusted
		r.adjustments = append(r.adjustments, Adjustment{
			Profile1Index: i1,
			Original:      exp,
			Adjusted:      adjusted,
		})
	}
	return nil
}

// Lookup returns the slot registered for exposure.
func (r *Registry) Lookup(exposure uint32) (Slot, error) {
	if r != nil {
		if slot, ok := r.slots[exposure]; ok {
			return slot, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %dµs not found in configured sequences", ErrUnknownExposure, exposure)
}

// Adjusted returns the exposure lists to program into the camera. Profile 0 is
// returned unchanged; profile 1 carries the resolved values.
func (r *Registry) Adjusted() (profile0, profile1 []uint32) {
	if r == nil {
		return nil, nil
	}
	return r.profiles[Profile0].Exposures(), slices.Clone(r.adjusted1)
}

// Adjustments lists the profile 1 values that were moved during Build.
func (r *Registry) Adjustments() []Adjustment {
	if r == nil {
		return nil
	}
	return slices.Clone(r.adjustments)
}

// Profile returns the profile as configured, before adjustment.
func (r *Registry) Profile(id ProfileID) Profile {
	if r == nil || !id.Valid() {
		return Profile{}
	}
	return r.profiles[id]
}

// BracketSize returns the bracket size of profile id, 0 if it is unused.
func (r *Registry) BracketSize(id ProfileID) int {
	return r.Profile(id).BracketSize()
}

// FallbackSlot is the slot reported for an exposure that is not registered:
// index 0 of the first profile in use.
func (r *Registry) FallbackSlot() Slot {
	if r.BracketSize(Profile0) == 0 && r.BracketSize(Profile1) > 0 {
		return Slot{Profile: Profile1, Index: 0}
	}
	return Slot{Profile: Profile0, Index: 0}
}

// Len returns the number of registered exposure values.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.slots)
}
