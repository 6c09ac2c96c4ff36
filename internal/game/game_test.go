package game

import (
	"strings"
	"testing"
)

func TestMoveCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		moves []string
		want  int
	}{
		{name: "empty", moves: nil, want: 0},
		{name: "white only", moves: []string{"e4"}, want: 1},
		{name: "full pair", moves: []string{"e4", "e5"}, want: 1},
		{name: "odd", moves: []string{"e4", "e5", "Nf3"}, want: 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := (Source{Moves: tt.moves}).MoveCount(); got != tt.want {
				t.Fatalf("MoveCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHighlights(t *testing.T) {
	t.Parallel()
	src := Source{Moves: []string{"e4", "d5", "exd5", "Qxd5", "Nc3", "Qd8", "Qh5+", "g6", "Qe5#"}}
	h := src.Highlights()
	if h.Captures != 2 {
		t.Fatalf("Captures = %d", h.Captures)
	}
	if h.Checks != 1 {
		t.Fatalf("Checks = %d", h.Checks)
	}
	if !h.Mate {
		t.Fatal("Mate not detected")
	}
}

func TestAverageRating(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		white int
		black int
		want  int
	}{
		{name: "both", white: 2000, black: 2200, want: 2100},
		{name: "white only", white: 1800, want: 1800},
		{name: "black only", black: 1500, want: 1500},
		{name: "unrated", want: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			src := Source{Players: Players{WhiteRating: tt.white, BlackRating: tt.black}}
			if got := src.AverageRating(); got != tt.want {
				t.Fatalf("AverageRating() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNarrate(t *testing.T) {
	t.Parallel()
	src := Source{
		Moves:   []string{"e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#"},
		Result:  ResultCheckmate,
		Players: Players{White: "Anna", Black: "Boris", WhiteRating: 2100, BlackRating: 2300},
	}
	title, body := Narrate(src)
	if !strings.Contains(title, "Anna vs Boris") {
		t.Fatalf("title = %q", title)
	}
	if !strings.Contains(body, "Checkmate after 4 moves") {
		t.Fatalf("body = %q", body)
	}
	if !strings.Contains(body, "avg rating 2200") {
		t.Fatalf("body missing rating: %q", body)
	}
	if !strings.Contains(body, "Opening move: e4") {
		t.Fatalf("body missing opening: %q", body)
	}
}

func TestNarrateDraw(t *testing.T) {
	t.Parallel()
	src := Source{
		Moves:   make([]string, 120),
		Result:  ResultDraw,
		Players: Players{White: "A", Black: "B"},
	}
	for i := range src.Moves {
		src.Moves[i] = "Kd1"
	}
	title, body := Narrate(src)
	if !strings.Contains(title, "drawn after 60 moves") {
		t.Fatalf("title = %q", title)
	}
	if !strings.Contains(body, "draw") {
		t.Fatalf("body = %q", body)
	}
}

func TestTags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  Source
		want []string
	}{
		{
			name: "miniature mate by masters",
			src: Source{
				Moves:   []string{"e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#"},
				Result:  ResultCheckmate,
				Players: Players{WhiteRating: 2450, BlackRating: 2500},
			},
			want: []string{"chess", "checkmate", "miniature", "masterclass"},
		},
		{
			name: "long club draw",
			src: Source{
				Moves:   make([]string, 130),
				Result:  ResultDraw,
				Players: Players{WhiteRating: 1700, BlackRating: 1650},
			},
			want: []string{"chess", "draw", "marathon", "clubchess"},
		},
		{
			name: "unrated ongoing",
			src:  Source{Moves: []string{"d4", "d5", "c4"}},
			want: []string{"chess", "miniature"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("Tags() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Tags()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
