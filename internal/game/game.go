// Package game holds the source chess-game data that posts are derived from.
//
// The rules engine (move validation, PGN parsing) lives outside this repo;
// callers hand us an already-validated game.
package game

import "strings"

type Result string

const (
	ResultCheckmate Result = "checkmate"
	ResultDraw      Result = "draw"
	ResultOngoing   Result = "ongoing"
)

type Players struct {
	White       string
	Black       string
	WhiteRating int // 0 = unrated/unknown
	BlackRating int
}

// Source is the unit of input content: one game plus enough metadata
// to derive a post from it.
type Source struct {
	Notation    string   // full PGN
	PositionKey string   // FEN of the final position
	Moves       []string // SAN, in order
	Result      Result
	Players     Players
}

// MoveCount reports full moves (a white+black pair counts as one).
func (s Source) MoveCount() int {
	return (len(s.Moves) + 1) / 2
}

// Highlights summarizes notable move markers in SAN notation.
type Highlights struct {
	Captures int
	Checks   int
	Mate     bool
}

func (s Source) Highlights() Highlights {
	var h Highlights
	for _, m := range s.Moves {
		if strings.Contains(m, "x") {
			h.Captures++
		}
		if strings.HasSuffix(m, "+") {
			h.Checks++
		}
		if strings.HasSuffix(m, "#") {
			h.Mate = true
		}
	}
	return h
}

// AverageRating returns the mean of the known ratings, or 0 when neither
// player has one.
func (s Source) AverageRating() int {
	w, b := s.Players.WhiteRating, s.Players.BlackRating
	switch {
	case w > 0 && b > 0:
		return (w + b) / 2
	case w > 0:
		return w
	case b > 0:
		return b
	default:
		return 0
	}
}
