package game

import (
	"fmt"
	"strings"
)

// Narrate builds a default title and body for a game. It is a simple
// rule-based summary (result, move count, capture/check markers), not an
// AI call; callers may override either piece via post options.
func Narrate(src Source) (title, body string) {
	title = defaultTitle(src)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s faced %s", src.Players.White, src.Players.Black))
	if avg := src.AverageRating(); avg > 0 {
		b.WriteString(fmt.Sprintf(" (avg rating %d)", avg))
	}
	b.WriteString(". ")

	moves := src.MoveCount()
	switch src.Result {
	case ResultCheckmate:
		b.WriteString(fmt.Sprintf("Checkmate after %d moves", moves))
	case ResultDraw:
		b.WriteString(fmt.Sprintf("A hard-fought draw over %d moves", moves))
	default:
		b.WriteString(fmt.Sprintf("Game in progress, %d moves so far", moves))
	}

	h := src.Highlights()
	var beats []string
	if h.Captures > 0 {
		beats = append(beats, fmt.Sprintf("%d captures", h.Captures))
	}
	if h.Checks > 0 {
		beats = append(beats, fmt.Sprintf("%d checks", h.Checks))
	}
	if len(beats) > 0 {
		b.WriteString(" with ")
		b.WriteString(strings.Join(beats, " and "))
	}
	b.WriteString(".")

	if len(src.Moves) > 0 {
		b.WriteString(fmt.Sprintf(" Opening move: %s.", src.Moves[0]))
	}
	return title, b.String()
}

func defaultTitle(src Source) string {
	vs := fmt.Sprintf("%s vs %s", src.Players.White, src.Players.Black)
	switch src.Result {
	case ResultCheckmate:
		return fmt.Sprintf("%s — checkmate in %d", vs, src.MoveCount())
	case ResultDraw:
		return fmt.Sprintf("%s — drawn after %d moves", vs, src.MoveCount())
	default:
		return vs
	}
}

// Game length classes for tag generation.
const (
	miniatureMoves = 20
	marathonMoves  = 60
)

// Tags derives base tags from game characteristics: result type, length
// class, and rating tier when available. Category tags are layered on
// later, per target, by the adapters.
func Tags(src Source) []string {
	tags := []string{"chess"}

	switch src.Result {
	case ResultCheckmate:
		tags = append(tags, "checkmate")
	case ResultDraw:
		tags = append(tags, "draw")
	}

	moves := src.MoveCount()
	switch {
	case moves > 0 && moves <= miniatureMoves:
		tags = append(tags, "miniature")
	case moves >= marathonMoves:
		tags = append(tags, "marathon")
	}

	switch avg := src.AverageRating(); {
	case avg >= 2400:
		tags = append(tags, "masterclass")
	case avg >= 2000:
		tags = append(tags, "expertplay")
	case avg >= 1600:
		tags = append(tags, "clubchess")
	}

	return tags
}
