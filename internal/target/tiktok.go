package target

import "errors"

type tiktokAdapter struct{ base }

// TikTok returns the adapter for short-video posts. It requires at least
// one video item and rejects image-only submissions.
func TikTok() Adapter {
	return tiktokAdapter{base{
		t: Target{
			ID:      "tiktok",
			Name:    "TikTok",
			Enabled: true,
			Limits: Limits{
				MaxBodyLen:      2200,
				MaxTags:         8,
				MaxMediaItems:   1,
				MaxVideoSeconds: 180,
			},
			Capabilities: Capabilities{
				Video: true,
				Tags:  true,
			},
		},
		suffix: "\n\n♟ Full game on ChessPress",
		vocab: map[string][]string{
			"all":     {"chess", "chesstok"},
			"tactics": {"chesspuzzle", "braingames"},
			"blitz":   {"blitz", "speedrun"},
			"endgame": {"endgame"},
		},
	}}
}

func (a tiktokAdapter) Validate(body string, media []string) []error {
	errs := a.base.Validate(body, media)
	hasVideo := false
	for _, m := range media {
		if isVideo(m) {
			hasVideo = true
			break
		}
	}
	if !hasVideo {
		errs = append(errs, errors.New("tiktok requires at least one video item"))
	}
	return errs
}
