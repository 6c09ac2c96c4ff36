package target

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatBodyNeverExceedsLimit(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("Qxf7+ Kxf7 and the attack rolls on. ", 300)
	bodies := []string{
		"",
		"short note",
		long,
		strings.Repeat("♞", 5000), // multi-byte runes
		strings.Repeat(" ", 400),
	}
	tags := []string{"chess", "tactics", "blitz", "endgame", "chess"}

	for _, a := range Builtin() {
		limit := a.Target().Limits.MaxBodyLen
		for _, body := range bodies {
			got := a.FormatBody(body, tags)
			if n := utf8.RuneCountInString(got); n > limit {
				t.Fatalf("%s: formatted body is %d runes, limit %d", a.Target().ID, n, limit)
			}
		}
	}
}

func TestFormatBodyIdempotent(t *testing.T) {
	t.Parallel()
	tags := []string{"chess", "endgame"}
	for _, a := range Builtin() {
		once := a.FormatBody("A rook endgame with a study-like finish.", tags)
		twice := a.FormatBody(once, tags)
		if once != twice {
			t.Fatalf("%s: formatting is not idempotent:\nonce:  %q\ntwice: %q", a.Target().ID, once, twice)
		}
	}
}

func TestFormatBodyKeepsSuffixUnderPressure(t *testing.T) {
	t.Parallel()
	a := Twitter()
	body := strings.Repeat("x", 1000)
	got := a.FormatBody(body, nil)
	if !strings.Contains(got, "ChessPress") {
		t.Fatalf("suffix lost under truncation: %q", got)
	}
	if utf8.RuneCountInString(got) > a.Target().Limits.MaxBodyLen {
		t.Fatalf("over limit: %d runes", utf8.RuneCountInString(got))
	}
}

func TestGenerateTagsDedupeAndCap(t *testing.T) {
	t.Parallel()
	a := Twitter() // MaxTags 4
	got := a.GenerateTags([]string{"Chess", "chess", "#CHESS", "blitz"}, "blitz")
	if len(got) > 4 {
		t.Fatalf("tag cap exceeded: %v", got)
	}
	seen := map[string]bool{}
	for _, tag := range got {
		k := strings.ToLower(tag)
		if seen[k] {
			t.Fatalf("duplicate tag %q in %v", tag, got)
		}
		seen[k] = true
		if strings.HasPrefix(tag, "#") {
			t.Fatalf("tag %q kept its # prefix", tag)
		}
	}
	if !seen["chess"] {
		t.Fatalf("base tag lost: %v", got)
	}
}

func TestFormatTitleFallsBackToBodyLimit(t *testing.T) {
	t.Parallel()
	a := Twitter() // no distinct title field
	title := strings.Repeat("t", 500)
	got := a.FormatTitle(title)
	if n := utf8.RuneCountInString(got); n > a.Target().Limits.MaxBodyLen {
		t.Fatalf("title is %d runes, want <= body limit %d", n, a.Target().Limits.MaxBodyLen)
	}
}

func TestValidateReturnsAllViolations(t *testing.T) {
	t.Parallel()
	a := Twitter()
	body := strings.Repeat("x", 300)
	media := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
	errs := a.Validate(body, media)
	if len(errs) < 2 {
		t.Fatalf("want body and media violations together, got %v", errs)
	}
}

func TestValidateMediaCapabilities(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		adapter Adapter
		body    string
		media   []string
		wantErr bool
	}{
		{name: "instagram requires media", adapter: Instagram(), body: "pos", media: nil, wantErr: true},
		{name: "instagram with image", adapter: Instagram(), body: "pos", media: []string{"board.png"}, wantErr: false},
		{name: "tiktok requires video", adapter: TikTok(), body: "clip", media: []string{"board.png"}, wantErr: true},
		{name: "tiktok with video", adapter: TikTok(), body: "clip", media: []string{"game.mp4"}, wantErr: false},
		{name: "telegram text only", adapter: Telegram(), body: "note", media: nil, wantErr: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.adapter.Validate(tt.body, tt.media)
			if tt.wantErr && len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Fatalf("unexpected violations: %v", errs)
			}
		})
	}
}

func TestLinkedInRegisterTransform(t *testing.T) {
	t.Parallel()
	a := LinkedIn()
	got := a.FormatBody("White crushed the kingside, gg! lol", nil)
	for _, banned := range []string{"crushed", "gg!", "lol"} {
		if strings.Contains(got, banned) {
			t.Fatalf("casual phrase %q survived: %q", banned, got)
		}
	}
	if !strings.Contains(got, "decisively defeated") {
		t.Fatalf("replacement missing: %q", got)
	}

	tags := a.GenerateTags([]string{"gg", "chess"}, "analysis")
	for _, tag := range tags {
		if tag == "gg" {
			t.Fatalf("casual tag survived: %v", tags)
		}
	}
}

func TestTruncatePathological(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		in    string
		limit int
	}{
		{name: "empty", in: "", limit: 10},
		{name: "zero limit", in: "abc", limit: 0},
		{name: "limit one", in: "abc", limit: 1},
		{name: "exact fit", in: "abc", limit: 3},
		{name: "all spaces", in: "     ", limit: 3},
		{name: "multibyte", in: "♔♕♖♗♘♙", limit: 4},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.limit)
			if n := utf8.RuneCountInString(got); n > tt.limit {
				t.Fatalf("truncate(%q, %d) = %q (%d runes)", tt.in, tt.limit, got, n)
			}
		})
	}
}
