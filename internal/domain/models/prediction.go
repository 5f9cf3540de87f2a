package models

// Prediction horizons.
const (
	Horizon24H = "24H"
	Horizon7D  = "7D"
	Horizon30D = "30D"
)

// PriceTarget is a predicted price band with confidence for one horizon.
// Low <= High always holds; the band may sit entirely above or below the
// current price when momentum bias pushes it there.
type PriceTarget struct {
	Horizon    string  `json:"horizon"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Confidence float64 `json:"confidence"` // percent, clamped to [30,95]
}

// PredictionSet holds the three-horizon price targets in ascending
// horizon order (24H, 7D, 30D).
type PredictionSet struct {
	Targets []PriceTarget `json:"targets"`
}

// Target returns the target for the given horizon, or nil.
func (p *PredictionSet) Target(horizon string) *PriceTarget {
	for i := range p.Targets {
		if p.Targets[i].Horizon == horizon {
			return &p.Targets[i]
		}
	}
	return nil
}
