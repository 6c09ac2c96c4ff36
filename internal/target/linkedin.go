package target

import "strings"

type linkedinAdapter struct{ base }

// LinkedIn returns the adapter for professional-register posts: casual
// wording is substituted with neutral phrasing and casual tags are
// dropped before the shared formatting runs.
func LinkedIn() Adapter {
	return linkedinAdapter{base{
		t: Target{
			ID:      "linkedin",
			Name:    "LinkedIn",
			Enabled: true,
			Limits: Limits{
				MaxBodyLen:    3000,
				MaxTitleLen:   200,
				MaxTags:       5,
				MaxMediaItems: 9,
			},
			Capabilities: Capabilities{
				Video:      true,
				Images:     true,
				Tags:       true,
				Scheduling: true,
			},
		},
		suffix: "\n\nRead the full analysis on ChessPress.",
		vocab: map[string][]string{
			"all":      {"chess", "strategy"},
			"tactics":  {"problemsolving"},
			"endgame":  {"endgame"},
			"opening":  {"preparation"},
			"analysis": {"decisionmaking"},
		},
	}}
}

// neutralize maps casual phrasing to something a professional feed
// tolerates. Keys are matched case-insensitively on word boundaries.
var neutralize = map[string]string{
	"crushed":   "decisively defeated",
	"destroyed": "outplayed",
	"rekt":      "outplayed",
	"insane":    "remarkable",
	"epic":      "notable",
	"gg":        "good game",
	"lol":       "",
	"omg":       "",
}

var casualTags = map[string]struct{}{
	"gg": {}, "lol": {}, "rekt": {}, "epic": {}, "hype": {},
}

func (a linkedinAdapter) FormatBody(body string, tags []string) string {
	return a.base.FormatBody(neutralizeText(body), tags)
}

func (a linkedinAdapter) GenerateTags(baseTags []string, category string) []string {
	kept := make([]string, 0, len(baseTags))
	for _, t := range baseTags {
		if _, casual := casualTags[strings.ToLower(strings.TrimPrefix(t, "#"))]; casual {
			continue
		}
		kept = append(kept, t)
	}
	return a.base.GenerateTags(kept, category)
}

// neutralizeText rewrites word by word. Lines are processed separately
// so paragraph breaks survive; that keeps FormatBody idempotent, since
// the appended decoration depends on its newlines.
func neutralizeText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		words := strings.Fields(line)
		out := make([]string, 0, len(words))
		for _, w := range words {
			bare := strings.ToLower(strings.Trim(w, ".,!?"))
			if repl, ok := neutralize[bare]; ok {
				if repl == "" {
					continue
				}
				w = repl + trailingPunct(w)
			}
			out = append(out, w)
		}
		lines[i] = strings.Join(out, " ")
	}
	return strings.Join(lines, "\n")
}

func trailingPunct(w string) string {
	trimmed := strings.TrimRight(w, ".,!?")
	return w[len(trimmed):]
}
