package camera

// Store is the persistence abstraction for camera state.
// The Repository uses Store for all reads and writes and serializes access to
// it; implementations need not be safe for concurrent use.
type Store interface {
	GetCamera(id CameraID) (*CameraState, bool)
	SetCamera(c *CameraState)
	DeleteCamera(id CameraID)
	ListCameraIDs() []CameraID
}

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	cameras map[CameraID]*CameraState
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		cameras: make(map[CameraID]*CameraState),
	}
}

// GetCamera implements Store.GetCamera.
func (s *InMemoryStore) GetCamera(id CameraID) (*CameraState, bool) {
	c, ok := s.cameras[id]
	return c, ok
}

// SetCamera implements Store.SetCamera.
func (s *InMemoryStore) SetCamera(c *CameraState) {
	s.cameras[c.ID] = c
}

// DeleteCamera implements Store.DeleteCamera.
func (s *InMemoryStore) DeleteCamera(id CameraID) {
	delete(s.cameras, id)
}

// ListCameraIDs implements Store.ListCameraIDs.
func (s *InMemoryStore) ListCameraIDs() []CameraID {
	ids := make([]CameraID, 0, len(s.cameras))
	for id := range s.cameras {
		ids = append(ids, id)
	}
	return ids
}
