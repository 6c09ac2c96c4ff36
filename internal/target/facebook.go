package target

// Facebook returns the adapter for long-form feed posts.
func Facebook() Adapter {
	return base{
		t: Target{
			ID:      "facebook",
			Name:    "Facebook",
			Enabled: true,
			Limits: Limits{
				MaxBodyLen:    5000,
				MaxTitleLen:   255,
				MaxTags:       10,
				MaxMediaItems: 10,
			},
			Capabilities: Capabilities{
				Video:      true,
				Images:     true,
				Tags:       true,
				Scheduling: true,
			},
		},
		suffix: "\n\n♟ Replay the full game on ChessPress",
		vocab: map[string][]string{
			"all":      {"chess", "chesscommunity"},
			"tactics":  {"chesspuzzle", "tactics"},
			"endgame":  {"endgame"},
			"opening":  {"openingtheory"},
			"blitz":    {"blitz"},
			"analysis": {"chessanalysis"},
		},
	}
}
