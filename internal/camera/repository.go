package camera

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hdr-bracket-sync/internal/bracket"

	"github.com/google/uuid"
)

// Repository defines the concurrency-safe contract for accessing and mutating
// per-camera HDR state. Every call on the same camera is serialized, so a
// reconfiguration never interleaves with a frame being processed.
type Repository interface {
	// Configure replaces the camera's profiles and restarts its sequence.
	// The camera is created if it does not exist.
	Configure(id CameraID, profile0, profile1 []bracket.Step) (ConfigureResult, error)

	// ProcessFrame computes the identity of one frame of a configured camera.
	ProcessFrame(id CameraID, frame uint64, exposure uint32) (FrameResult, error)

	// RequestSwitch arms a profile switch signal for the camera.
	RequestSwitch(id CameraID, target bracket.ProfileID, retries int) error

	// Reset clears the camera's profiles and sequence. Resetting an unknown
	// camera is a no-op.
	Reset(id CameraID) error

	// Remove forgets the camera entirely. Removing an unknown camera is a no-op.
	Remove(id CameraID) error

	// Status returns a snapshot of the camera. ok is false if it does not exist.
	Status(id CameraID) (status Status, ok bool)

	// ConfiguredCount returns the number of configured cameras.
	// Used for metrics.
	ConfiguredCount() int
}

var (
	// ErrCameraNotFound is returned for a camera that was never configured.
	ErrCameraNotFound = errors.New("camera not found")
)

// InMemoryRepository is a concurrency-safe in-memory implementation of Repository.
// It uses a Store for persistence; by default that is an InMemoryStore.
type InMemoryRepository struct {
	mu       sync.Mutex
	store    Store
	log      *slog.Logger
	syncOpts []bracket.Option
}

// NewInMemoryRepository constructs a new repository with a default in-memory store.
// opts are applied to every camera's sequencer.
func NewInMemoryRepository(log *slog.Logger, opts ...bracket.Option) *InMemoryRepository {
	return NewInMemoryRepositoryWithStore(NewInMemoryStore(), log, opts...)
}

// NewInMemoryRepositoryWithStore constructs a repository that uses the given Store.
func NewInMemoryRepositoryWithStore(store Store, log *slog.Logger, opts ...bracket.Option) *InMemoryRepository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &InMemoryRepository{store: store, log: log, syncOpts: opts}
}

// Configure implements Repository.Configure.
func (r *InMemoryRepository) Configure(id CameraID, profile0, profile1 []bracket.Step) (ConfigureResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam := r.getOrCreateCameraLocked(id)
	cam.Switcher.Reset()
	cam.FramesProcessed = 0

	adjusted0, adjusted1, err := cam.Sync.Configure(bracket.Exposures(profile0), bracket.Exposures(profile1))
	if err != nil {
		cam.SessionID = ""
		cam.Profile0, cam.Profile1 = nil, nil
		return ConfigureResult{}, err
	}

	cam.SessionID = uuid.NewString()
	cam.ConfiguredAt = time.Now().UTC()
	cam.Profile0, cam.Profile1 = profile0, profile1

	adjustments := 0
	for i := range adjusted1 {
		if adjusted1[i] != profile1[i].ExposureUS {
			adjustments++
		}
	}

	return ConfigureResult{
		SessionID:            cam.SessionID,
		AdjustedProfile0:     adjusted0,
		AdjustedProfile1:     adjusted1,
		AdjustedHDRSequence:  bracket.FormatSequence(bracket.WithExposures(profile0, adjusted0)),
		AdjustedHDRSequence2: bracket.FormatSequence(bracket.WithExposures(profile1, adjusted1)),
		Adjustments:          adjustments,
	}, nil
}

// ProcessFrame implements Repository.ProcessFrame.
func (r *InMemoryRepository) ProcessFrame(id CameraID, frame uint64, exposure uint32) (FrameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam, ok := r.store.GetCamera(id)
	if !ok {
		return FrameResult{}, fmt.Errorf("%w: %s", ErrCameraNotFound, id)
	}

	prev, started := cam.Sync.CurrentProfile()
	ident, err := cam.Sync.ProcessFrame(frame, exposure)
	if err != nil {
		return FrameResult{}, err
	}
	cam.FramesProcessed++

	res := FrameResult{
		FrameIdentity:   ident,
		ProfileSwitched: started && prev != ident.Profile,
	}
	if target, ok := cam.Switcher.PendingSignal(); ok {
		res.SwitchTo = &target
	}
	return res, nil
}

// RequestSwitch implements Repository.RequestSwitch.
func (r *InMemoryRepository) RequestSwitch(id CameraID, target bracket.ProfileID, retries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam, ok := r.store.GetCamera(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCameraNotFound, id)
	}
	if !cam.Sync.Configured() {
		return fmt.Errorf("%w: camera %s", bracket.ErrNotConfigured, id)
	}
	if cam.Sync.BracketSize(target) == 0 {
		return fmt.Errorf("%w: profile %d has no exposures", bracket.ErrInvalidProfile, target)
	}
	return cam.Switcher.RequestSwitch(target, retries)
}

// Reset implements Repository.Reset.
func (r *InMemoryRepository) Reset(id CameraID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam, ok := r.store.GetCamera(id)
	if !ok {
		// Treat resetting a non-existent camera as a no-op for idempotency.
		return nil
	}

	cam.Sync.Reset()
	cam.Switcher.Reset()
	cam.SessionID = ""
	cam.Profile0, cam.Profile1 = nil, nil
	cam.FramesProcessed = 0
	return nil
}

// Remove implements Repository.Remove.
func (r *InMemoryRepository) Remove(id CameraID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.DeleteCamera(id)
	return nil
}

// Status implements Repository.Status.
func (r *InMemoryRepository) Status(id CameraID) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam, ok := r.store.GetCamera(id)
	if !ok {
		return Status{}, false
	}

	st := Status{
		ID:              cam.ID,
		SessionID:       cam.SessionID,
		Configured:      cam.Sync.Configured(),
		ConfiguredAt:    cam.ConfiguredAt,
		Profile0Size:    cam.Sync.BracketSize(bracket.Profile0),
		Profile1Size:    cam.Sync.BracketSize(bracket.Profile1),
		SwitchPending:   cam.Switcher.Switching(),
		FramesProcessed: cam.FramesProcessed,
	}
	if p, ok := cam.Sync.CurrentProfile(); ok {
		st.CurrentProfile = &p
	}
	return st, true
}

// ConfiguredCount implements Repository.ConfiguredCount.
func (r *InMemoryRepository) ConfiguredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range r.store.ListCameraIDs() {
		if cam, ok := r.store.GetCamera(id); ok && cam.Sync.Configured() {
			n++
		}
	}
	return n
}

// getOrCreateCameraLocked returns an existing camera or creates a new one.
// Caller must hold r.mu.
func (r *InMemoryRepository) getOrCreateCameraLocked(id CameraID) *CameraState {
	if cam, ok := r.store.GetCamera(id); ok {
		return cam
	}

	cam := &CameraState{
		ID:   id,
		Sync: bracket.NewSynchronizer(r.log.With(slog.String("camera_id", string(id))), r.syncOpts...),
	}
	r.store.SetCamera(cam)
	return cam
}
