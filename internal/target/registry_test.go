package target

import (
	"errors"
	"testing"
)

func TestRegistryOrderAndLastWins(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Builtin()...)

	ids := r.IDs()
	want := []string{"twitter", "instagram", "facebook", "linkedin", "tiktok", "telegram"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	// Re-registering an id replaces the adapter but keeps its position.
	r.Register(Twitter())
	ids = r.IDs()
	if ids[0] != "twitter" || len(ids) != len(want) {
		t.Fatalf("re-register changed order: %v", ids)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Builtin()...)
	_, err := r.Get("mastodon")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegistryEnableDisable(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Builtin()...)

	if !r.Enabled("twitter") {
		t.Fatal("twitter should start enabled")
	}
	if err := r.SetEnabled("twitter", false); err != nil {
		t.Fatal(err)
	}
	if r.Enabled("twitter") {
		t.Fatal("twitter should be disabled")
	}
	// Disabled targets remain resolvable; only delivery is refused.
	if _, err := r.Get("twitter"); err != nil {
		t.Fatalf("disabled target not resolvable: %v", err)
	}
	if err := r.SetEnabled("nope", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegistryCredentials(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Builtin()...)
	if err := r.SetCredential("telegram", "@chesspress"); err != nil {
		t.Fatal(err)
	}
	if got := r.Credential("telegram"); got != "@chesspress" {
		t.Fatalf("credential = %q", got)
	}
	if got := r.Credential("twitter"); got != "" {
		t.Fatalf("unset credential = %q", got)
	}
}
