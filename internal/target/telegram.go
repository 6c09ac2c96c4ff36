package target

// Telegram returns the adapter for channel posts. The credential ref is
// the channel chat id, resolved by the delivery layer.
func Telegram() Adapter {
	return base{
		t: Target{
			ID:      "telegram",
			Name:    "Telegram",
			Enabled: true,
			Limits: Limits{
				MaxBodyLen:    4096,
				MaxTags:       8,
				MaxMediaItems: 10,
			},
			Capabilities: Capabilities{
				Video:      true,
				Images:     true,
				Tags:       true,
				Scheduling: true,
			},
		},
		suffix: "\n\n♟ @chesspress",
		vocab: map[string][]string{
			"all":      {"chess"},
			"tactics":  {"tactics"},
			"endgame":  {"endgame"},
			"opening":  {"openings"},
			"blitz":    {"blitz"},
			"analysis": {"analysis"},
		},
	}
}
