package target

import (
	"fmt"
	"strings"
)

// base carries the shared adapter behavior. Variants embed it and
// override only what differs (media rules, register transforms).
type base struct {
	t      Target
	suffix string              // call-to-action appended to every body
	vocab  map[string][]string // category -> extra tags; key "all" always applies
}

func (b base) Target() Target { return b.t }

func (b base) FormatTitle(title string) string {
	limit := b.t.Limits.MaxTitleLen
	if limit <= 0 {
		limit = b.t.Limits.MaxBodyLen
	}
	return truncate(strings.TrimSpace(title), limit)
}

func (b base) GenerateTags(baseTags []string, category string) []string {
	if !b.t.Capabilities.Tags {
		return nil
	}
	merged := make([]string, 0, len(baseTags)+8)
	merged = append(merged, baseTags...)
	merged = append(merged, b.vocab["all"]...)
	if category != "" && category != "all" {
		merged = append(merged, b.vocab[category]...)
	}
	return dedupeTags(merged, b.t.Limits.MaxTags)
}

func (b base) FormatBody(body string, tags []string) string {
	limit := b.t.Limits.MaxBodyLen
	block := b.tagBlock(tags)
	decoration := b.suffix + block

	// Idempotence: an already-decorated, within-limit body passes through
	// unchanged (no double truncation, no double suffix).
	if decoration != "" && strings.HasSuffix(body, decoration) && runeLen(body) <= limit {
		return body
	}

	suffixLen := runeLen(b.suffix)
	if suffixLen > limit {
		// Degenerate config; keep the invariant and drop the suffix.
		return truncate(body, limit)
	}

	budget := limit - suffixLen - runeLen(block)
	if block != "" && budget <= 0 {
		// No room for the tag block; body + suffix win.
		block = ""
		budget = limit - suffixLen
	}
	return truncate(strings.TrimRight(body, " \t\n"), budget) + b.suffix + block
}

// tagBlock renders tags as a trailing "#a #b" paragraph, or "" when the
// target has no tag support or no tags were generated.
func (b base) tagBlock(tags []string) string {
	if !b.t.Capabilities.Tags || len(tags) == 0 {
		return ""
	}
	capped := dedupeTags(tags, b.t.Limits.MaxTags)
	if len(capped) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n")
	for i, t := range capped {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('#')
		sb.WriteString(t)
	}
	return sb.String()
}

func (b base) Validate(body string, media []string) []error {
	var errs []error
	if limit := b.t.Limits.MaxBodyLen; limit > 0 && runeLen(body) > limit {
		errs = append(errs, fmt.Errorf("body is %d chars, %s allows %d", runeLen(body), b.t.ID, limit))
	}
	if max := b.t.Limits.MaxMediaItems; max > 0 && len(media) > max {
		errs = append(errs, fmt.Errorf("%d media items, %s allows %d", len(media), b.t.ID, max))
	}
	for _, m := range media {
		if isVideo(m) && !b.t.Capabilities.Video {
			errs = append(errs, fmt.Errorf("%s does not support video: %s", b.t.ID, m))
		}
		if isImage(m) && !b.t.Capabilities.Images {
			errs = append(errs, fmt.Errorf("%s does not support images: %s", b.t.ID, m))
		}
	}
	return errs
}
