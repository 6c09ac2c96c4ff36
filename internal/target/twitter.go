package target

// Twitter returns the adapter for short-form microblog posts. There is
// no distinct title field; the title limit falls back to the body limit.
func Twitter() Adapter {
	return base{
		t: Target{
			ID:      "twitter",
			Name:    "Twitter / X",
			Enabled: true,
			Limits: Limits{
				MaxBodyLen:    280,
				MaxTags:       4,
				MaxMediaItems: 4,
			},
			Capabilities: Capabilities{
				Video:      true,
				Images:     true,
				Tags:       true,
				Scheduling: false,
				Threading:  true,
			},
		},
		suffix: "\n\n♟ Full game on ChessPress",
		vocab: map[string][]string{
			"all":      {"chess"},
			"tactics":  {"chesspuzzle", "tactics"},
			"endgame":  {"endgame"},
			"opening":  {"openingtheory"},
			"blitz":    {"blitz", "speedchess"},
			"analysis": {"chessanalysis"},
		},
	}
}
