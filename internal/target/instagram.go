package target

import "errors"

type instagramAdapter struct{ base }

// Instagram returns the adapter for image-first feed posts. Submissions
// without any media are rejected at validation time.
func Instagram() Adapter {
	return instagramAdapter{base{
		t: Target{
			ID:      "instagram",
			Name:    "Instagram",
			Enabled: true,
			Limits: Limits{
				MaxBodyLen:      2200,
				MaxTags:         30,
				MaxMediaItems:   10,
				MaxVideoSeconds: 90,
			},
			Capabilities: Capabilities{
				Video:  true,
				Images: true,
				Tags:   true,
			},
		},
		suffix: "\n\n♟ Play through the full game — link in bio",
		vocab: map[string][]string{
			"all":      {"chess", "chessgram", "chesslife", "boardgames"},
			"tactics":  {"chesspuzzle", "tactics", "puzzleoftheday"},
			"endgame":  {"endgame", "endgamestudy"},
			"opening":  {"openingtheory", "chessopenings"},
			"blitz":    {"blitz", "speedchess", "bulletchess"},
			"analysis": {"chessanalysis", "gamereview"},
		},
	}}
}

func (a instagramAdapter) Validate(body string, media []string) []error {
	errs := a.base.Validate(body, media)
	if len(media) == 0 {
		errs = append(errs, errors.New("instagram requires at least one media item"))
	}
	return errs
}
