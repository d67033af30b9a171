package dynamics

import "gonum.org/v1/gonum/stat/distuv"

// Emotions is the closed set of expressed-affect labels.
var Emotions = []string{
	"baseline",
	"neutral",
	"joy",
	"trust",
	"fear",
	"surprise",
	"sadness",
	"disgust",
	"anger",
	"anticipation",
}

// Categorical weight tables over Emotions, one per discount band. Bands
// are closed on the lower bound, open on the upper; the top band is
// unbounded above.
var (
	lowBandWeights  = []float64{10, 0, 0, 0, 4, 2, 3, 3, 10, 5} // discount < 0.3
	midBandWeights  = []float64{10, 6, 1, 5, 2, 1, 3, 2, 4, 2}  // 0.3 ≤ discount < 0.7
	highBandWeights = []float64{10, 1, 5, 4, 1, 3, 1, 0, 0, 4}  // discount ≥ 0.7
)

// NextEmotion draws an emotion label from the weight table selected by the
// discount band.
func (m *Model) NextEmotion(discount float64) string {
	var weights []float64
	switch {
	case discount < 0.3:
		weights = lowBandWeights
	case discount < 0.7:
		weights = midBandWeights
	default:
		weights = highBandWeights
	}
	dist := distuv.NewCategorical(weights, m.src)
	return Emotions[int(dist.Rand())]
}
