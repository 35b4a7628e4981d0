package types

// GameResult summarises a finished round.
type GameResult struct {
	GameName string  `json:"game_name"`
	Score    int     `json:"score"`
	Lines    int     `json:"lines"`
	Level    int     `json:"level"`
	Duration float64 `json:"duration"`
}

// Metadata returns the fields stored alongside the score.
func (r GameResult) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"lines":     r.Lines,
		"level":     r.Level,
		"game_time": r.Duration,
	}
}
