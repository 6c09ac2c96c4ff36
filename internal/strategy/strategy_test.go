package strategy

import (
	"errors"
	"testing"
	"time"
)

func TestTimeSlotValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slot    TimeSlot
		wantErr bool
	}{
		{name: "ok", slot: TimeSlot{Weekday: time.Monday, Hour: 14, Minute: 30}},
		{name: "ok with zone", slot: TimeSlot{Weekday: time.Friday, Hour: 9, TimeZone: "Europe/Berlin"}},
		{name: "bad hour", slot: TimeSlot{Weekday: time.Monday, Hour: 24}, wantErr: true},
		{name: "bad minute", slot: TimeSlot{Weekday: time.Monday, Minute: 60}, wantErr: true},
		{name: "bad zone", slot: TimeSlot{Weekday: time.Monday, TimeZone: "Mars/Olympus"}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPlanAccepts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		categories []string
		category   string
		want       bool
	}{
		{name: "empty accepts all", categories: nil, category: "tactics", want: true},
		{name: "all keyword", categories: []string{"all"}, category: "endgame", want: true},
		{name: "match", categories: []string{"tactics", "blitz"}, category: "blitz", want: true},
		{name: "no match", categories: []string{"tactics"}, category: "endgame", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := Plan{TargetID: "twitter", Categories: tt.categories}
			if got := p.Accepts(tt.category); got != tt.want {
				t.Fatalf("Accepts(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestRegistryAddAndDup(t *testing.T) {
	t.Parallel()
	r, err := NewRegistry(Strategy{Name: "std"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Add(Strategy{Name: "std"}); err == nil {
		t.Fatal("duplicate add should fail")
	}
	if err := r.Update(Strategy{Name: "std", Global: Global{MaxPostsPerDay: 5}}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := r.Get("std")
	if err != nil {
		t.Fatal(err)
	}
	if got.Global.MaxPostsPerDay != 5 {
		t.Fatalf("update not applied: %+v", got.Global)
	}
}

func TestRegistryRemoveAndMissing(t *testing.T) {
	t.Parallel()
	r, err := NewRegistry(Strategy{Name: "std"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Remove("std"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("std"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := r.Remove("std"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegistryReplace(t *testing.T) {
	t.Parallel()
	r, err := NewRegistry(Strategy{Name: "old"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Replace([]Strategy{{Name: "a"}, {Name: "b"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("old strategy survived replace")
	}
	if _, err := r.Get("a"); err != nil {
		t.Fatal(err)
	}

	// Invalid replacement leaves the current set intact.
	if err := r.Replace([]Strategy{{Name: ""}}); err == nil {
		t.Fatal("invalid strategy accepted")
	}
	if _, err := r.Get("a"); err != nil {
		t.Fatal("valid set lost after rejected replace")
	}

	if err := r.Replace([]Strategy{{Name: "x"}, {Name: "x"}}); err == nil {
		t.Fatal("duplicate names accepted")
	}
}

func TestStrategyValidate(t *testing.T) {
	t.Parallel()
	s := Strategy{Name: "std", Plans: []Plan{{TargetID: "twitter", Slots: []TimeSlot{{Weekday: time.Monday, Hour: 25}}}}}
	if err := s.Validate(); err == nil {
		t.Fatal("bad slot accepted")
	}
	if err := (Strategy{}).Validate(); err == nil {
		t.Fatal("empty name accepted")
	}
}
