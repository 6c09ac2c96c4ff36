package target

import (
	"path"
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// truncate shortens s to at most max runes. The ellipsis marker is
// counted inside the budget so the result never exceeds max.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runeLen(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return ellipsis
	}
	head := strings.TrimRight(string(r[:max-1]), " \t\n")
	return head + ellipsis
}

// dedupeTags removes case-insensitive duplicates, keeping first-seen
// order and casing, then caps the list at max (0 = unlimited).
func dedupeTags(tags []string, max int) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

var (
	videoExts = map[string]struct{}{".mp4": {}, ".mov": {}, ".webm": {}, ".mkv": {}, ".avi": {}}
	imageExts = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}}
)

func mediaExt(uri string) string {
	// Strip query/fragment so presigned URLs classify correctly.
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	return strings.ToLower(path.Ext(uri))
}

func isVideo(uri string) bool {
	_, ok := videoExts[mediaExt(uri)]
	return ok
}

func isImage(uri string) bool {
	_, ok := imageExts[mediaExt(uri)]
	return ok
}
