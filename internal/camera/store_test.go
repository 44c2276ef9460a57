package camera

import (
	"sort"
	"testing"
)

func TestInMemoryStore_GetSetCamera(t *testing.T) {
	store := NewInMemoryStore()

	_, ok := store.GetCamera(CameraID("c1"))
	if ok {
		t.Error("expected not found for empty store")
	}

	cam := &CameraState{ID: CameraID("c1")}
	store.SetCamera(cam)

	got, ok := store.GetCamera(CameraID("c1"))
	if !ok || got != cam {
		t.Errorf("GetCamera: ok=%v, got %p want %p", ok, got, cam)
	}
}

func TestInMemoryStore_SetCamera_replaces(t *testing.T) {
	store := NewInMemoryStore()
	c1 := &CameraState{ID: CameraID("c1")}
	c2 := &CameraState{ID: CameraID("c1")}
	store.SetCamera(c1)
	store.SetCamera(c2)

	got, ok := store.GetCamera(CameraID("c1"))
	if !ok || got != c2 {
		t.Errorf("SetCamera should replace: got %p want %p", got, c2)
	}
}

func TestInMemoryStore_DeleteCamera(t *testing.T) {
	store := NewInMemoryStore()
	store.SetCamera(&CameraState{ID: CameraID("c1")})

	store.DeleteCamera(CameraID("c1"))
	if _, ok := store.GetCamera(CameraID("c1")); ok {
		t.Error("camera still present after delete")
	}

	// Deleting a missing camera is a no-op.
	store.DeleteCamera(CameraID("missing"))
}

func TestInMemoryStore_ListCameraIDs(t *testing.T) {
	store := NewInMemoryStore()
	if ids := store.ListCameraIDs(); len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}

	store.SetCamera(&CameraState{ID: CameraID("b")})
	store.SetCamera(&CameraState{ID: CameraID("a")})

	ids := store.ListCameraIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ListCameraIDs: got %v", ids)
	}
}

func TestNewInMemoryRepositoryWithStore(t *testing.T) {
	// The repository must read and write through the injected store.
	store := NewInMemoryStore()
	repo := NewInMemoryRepositoryWithStore(store, nil)

	if _, err := repo.Configure(CameraID("c1"), steps(19, 150), steps(19, 250)); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	cam, ok := store.GetCamera(CameraID("c1"))
	if !ok {
		t.Fatal("camera not written to injected store")
	}
	if !cam.Sync.Configured() {
		t.Error("camera in store should be configured")
	}
}
