package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/kvstore"
)

func TestDefaultsToSystem(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	state := svc.State()
	if state.Theme != ModeSystem {
		t.Fatalf("theme = %q, want system", state.Theme)
	}
	if state.IsDark {
		t.Fatal("system defaults to light until the host reports otherwise")
	}
}

func TestSetThemeComputesDarkFlag(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	ctx := context.Background()

	state, err := svc.SetTheme(ctx, ModeDark)
	if err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if state.Theme != ModeDark || !state.IsDark {
		t.Fatalf("state = %+v, want dark/true", state)
	}

	state, err = svc.SetTheme(ctx, ModeLight)
	if err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if state.Theme != ModeLight || state.IsDark {
		t.Fatalf("state = %+v, want light/false", state)
	}
}

func TestSetThemeSystemFollowsHostScheme(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	ctx := context.Background()

	svc.SystemChanged(true)
	state, err := svc.SetTheme(ctx, ModeSystem)
	if err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if !state.IsDark {
		t.Fatal("system with dark host must resolve dark")
	}

	svc.SystemChanged(false)
	if svc.State().IsDark {
		t.Fatal("system must track the host scheme")
	}
}

func TestSetThemeIgnoresUnknownMode(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	state, err := svc.SetTheme(context.Background(), Mode("neon"))
	if err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if state.Theme != ModeSystem {
		t.Fatalf("theme = %q, want unchanged system", state.Theme)
	}
}

func TestToggleFlipsLightDarkOnly(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	ctx := context.Background()

	// From system, toggle lands on dark and never returns to system.
	state, err := svc.Toggle(ctx)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if state.Theme != ModeDark {
		t.Fatalf("toggle from system = %q, want dark", state.Theme)
	}

	state, _ = svc.Toggle(ctx)
	if state.Theme != ModeLight {
		t.Fatalf("toggle from dark = %q, want light", state.Theme)
	}
	state, _ = svc.Toggle(ctx)
	if state.Theme != ModeDark {
		t.Fatalf("toggle from light = %q, want dark", state.Theme)
	}
}

func TestHostSchemeIgnoredOutsideSystem(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	if _, err := svc.SetTheme(context.Background(), ModeLight); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	svc.SystemChanged(true)
	if svc.State().IsDark {
		t.Fatal("host scheme must not affect an explicit light preference")
	}

	// Switching back to system picks up the retained host value.
	state, err := svc.SetTheme(context.Background(), ModeSystem)
	if err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if !state.IsDark {
		t.Fatal("retained host scheme must apply once back on system")
	}
}

func TestInitializeRestoresPersistedMode(t *testing.T) {
	store := kvstore.NewMemory()
	first := NewService(store)
	if _, err := first.SetTheme(context.Background(), ModeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	second := NewService(store)
	second.Initialize(context.Background())
	if got := second.State().Theme; got != ModeDark {
		t.Fatalf("restored theme = %q, want dark", got)
	}
}

func TestInitializeLenientOnCorruptSnapshot(t *testing.T) {
	store := kvstore.NewMemory()
	if err := store.Set(context.Background(), StorageKey, []byte("??")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	svc := NewService(store)
	svc.Initialize(context.Background())
	if got := svc.State().Theme; got != ModeSystem {
		t.Fatalf("theme after corrupt snapshot = %q, want default system", got)
	}
}

func TestInitializeSubscribesOnce(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	calls := 0
	svc.Subscribe = func(apply func(dark bool)) error {
		calls++
		apply(true)
		return nil
	}

	svc.Initialize(context.Background())
	svc.Initialize(context.Background())
	if calls != 1 {
		t.Fatalf("subscribe calls = %d, want 1", calls)
	}
	if _, err := svc.SetTheme(context.Background(), ModeSystem); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if !svc.State().IsDark {
		t.Fatal("listener delivery must feed the system scheme")
	}
}

func TestInitializeSurvivesSubscribeFailure(t *testing.T) {
	svc := NewService(kvstore.NewMemory())
	svc.Subscribe = func(apply func(dark bool)) error {
		return errors.New("nats unavailable")
	}
	svc.Initialize(context.Background())
	if got := svc.State().Theme; got != ModeSystem {
		t.Fatalf("theme = %q", got)
	}
}
