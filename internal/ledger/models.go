package ledger

import "time"

// Run is one curation attempt for a single symbolic key.
type Run struct {
	ID             string
	Category       string
	Key            string
	Character      string
	ProfileName    string
	VariationCount int
	WinnerIndex    int
	WinnerScore    float64
	TargetLUFS     float64
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Candidates     []Candidate
}

// Candidate records the scoring outcome of one variation within a run.
type Candidate struct {
	Index            int
	Score            float64
	RMS              float64
	TempoBPM         float64
	SpectralCentroid float64
	DynamicRangeDB   float64
	HarmonicRatio    float64
	Error            string
}

// Succeeded reports whether the run committed a winner.
func (r Run) Succeeded() bool {
	return r.Error == "" && r.WinnerIndex >= 0
}
