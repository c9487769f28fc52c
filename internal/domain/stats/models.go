package stats

// Statline is a combatant's season totals as reported by the stats endpoint.
type Statline struct {
	Points int64  `json:"points"`
	Throws uint64 `json:"throws"`
	Hits   uint64 `json:"hits"`
	Shoves uint64 `json:"shoves"`
}

// HitRate returns hits per throw, or 0 when nothing was thrown.
func (s Statline) HitRate() float64 {
	if s.Throws == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Throws)
}
