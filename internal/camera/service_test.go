package camera

import (
	"errors"
	"testing"

	"hdr-bracket-sync/internal/bracket"
)

func TestNewService_default_retries(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), 0)
	if svc.switchRetries != DefaultSwitchRetries {
		t.Errorf("switchRetries: got %d, want %d", svc.switchRetries, DefaultSwitchRetries)
	}
}

func TestService_Configure_sequence_strings(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), 1)

	res, err := svc.Configure(CameraID("c1"), ConfigureRequest{
		HDRSequence:  "19:1.2,150",
		HDRSequence2: "19,250:4",
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if res.AdjustedHDRSequence != "19:1.2,150" {
		t.Errorf("AdjustedHDRSequence: got %q", res.AdjustedHDRSequence)
	}
	if res.AdjustedHDRSequence2 != "20,250:4" {
		t.Errorf("AdjustedHDRSequence2: got %q", res.AdjustedHDRSequence2)
	}
	if len(res.AdjustedProfile1) != 2 || res.AdjustedProfile1[0] != 20 {
		t.Errorf("AdjustedProfile1: got %v", res.AdjustedProfile1)
	}
}

func TestService_Configure_list_wins(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), 1)

	res, err := svc.Configure(CameraID("c1"), ConfigureRequest{
		Profile0:    []uint32{10, 20},
		HDRSequence: "not a sequence",
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if res.AdjustedHDRSequence != "10,20" {
		t.Errorf("AdjustedHDRSequence: got %q", res.AdjustedHDRSequence)
	}
}

func TestService_Configure_invalid_sequence(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo, 1)

	_, err := svc.Configure(CameraID("c1"), ConfigureRequest{HDRSequence: "19,abc"})
	if !errors.Is(err, bracket.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if _, ok := repo.Status(CameraID("c1")); ok {
		t.Error("a rejected sequence string must not create the camera")
	}
}

func TestService_ProcessFrame(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), 1)
	id := CameraID("c1")
	if _, err := svc.Configure(id, ConfigureRequest{HDRSequence: "10,20,30"}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.ProcessFrame(id, FrameRequest{FrameNumber: 4, ExposureUS: 10})
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if res.MasterSequence != 2 || res.BracketIndex != 0 || res.BracketSize != 3 {
		t.Errorf("got %+v", res.FrameIdentity)
	}
}

func TestService_RequestSwitch_retries(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo, 3)
	id := CameraID("c1")
	if _, err := svc.Configure(id, ConfigureRequest{Profile0: []uint32{10}, Profile1: []uint32{20}}); err != nil {
		t.Fatal(err)
	}

	t.Run("service_default", func(t *testing.T) {
		if err := svc.RequestSwitch(id, SwitchRequest{Profile: bracket.Profile1}); err != nil {
			t.Fatalf("RequestSwitch: %v", err)
		}
		signals := 0
		for frame := uint64(1); frame <= 5; frame++ {
			res, err := svc.ProcessFrame(id, FrameRequest{FrameNumber: frame, ExposureUS: 10})
			if err != nil {
				t.Fatal(err)
			}
			if res.SwitchTo != nil {
				signals++
			}
		}
		if signals != 3 {
			t.Errorf("signals: got %d, want 3", signals)
		}
	})

	t.Run("explicit", func(t *testing.T) {
		if err := svc.RequestSwitch(id, SwitchRequest{Profile: bracket.Profile0, Retries: 1}); err != nil {
			t.Fatalf("RequestSwitch: %v", err)
		}
		res, err := svc.ProcessFrame(id, FrameRequest{FrameNumber: 6, ExposureUS: 20})
		if err != nil {
			t.Fatal(err)
		}
		if res.SwitchTo == nil || *res.SwitchTo != bracket.Profile0 {
			t.Errorf("SwitchTo: got %v", res.SwitchTo)
		}
		if st, _ := svc.Status(id); st.SwitchPending {
			t.Error("single retry should be consumed")
		}
	})

	t.Run("invalid_profile", func(t *testing.T) {
		err := svc.RequestSwitch(id, SwitchRequest{Profile: bracket.ProfileID(7)})
		if !errors.Is(err, bracket.ErrInvalidProfile) {
			t.Errorf("expected ErrInvalidProfile, got %v", err)
		}
	})
}

func TestService_Reset_and_Remove(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), 1)
	id := CameraID("c1")
	if _, err := svc.Configure(id, ConfigureRequest{HDRSequence: "10,20"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Reset(id); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	st, ok := svc.Status(id)
	if !ok || st.Configured {
		t.Errorf("after Reset: ok=%v configured=%v", ok, st.Configured)
	}

	if err := svc.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := svc.Status(id); ok {
		t.Error("camera still present after Remove")
	}
}
