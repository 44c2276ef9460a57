package bracket

// ProfileID selects one of the two configured HDR profiles.
type ProfileID uint8

const (
	Profile0 ProfileID = 0
	Profile1 ProfileID = 1
)

// Valid reports whether p is 0 or 1.
func (p ProfileID) Valid() bool {
	return p == Profile0 || p == Profile1
}

// Slot is the position of an exposure inside a profile's bracket.
type Slot struct {
	Profile ProfileID
	Index   int
}

// FrameIdentity is the logical identity computed for one captured frame.
type FrameIdentity struct {
	MasterSequence uint64    `json:"master_sequence"`
	BracketIndex   int       `json:"bracket_index"`
	BracketSize    int       `json:"bracket_size"`
	ExposureValue  uint32    `json:"exposure_value"`
	Profile        ProfileID `json:"profile"`
}
