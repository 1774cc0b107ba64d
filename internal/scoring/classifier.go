package scoring

import (
	"sort"
)

func sortedBandsAscending(bands []GradeBand) []GradeBand {
	out := make([]GradeBand, len(bands))
	copy(out, bands)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Lower < out[j].Lower
	})
	return out
}

// Classify maps a bounded total score to a grade label. Bands are
// checked in descending order of lower bound, first containing band
// wins, so a score sitting exactly on a shared boundary gets the
// higher grade.
func Classify(totalScore float64, bands []GradeBand) (string, error) {
	sorted := sortedBandsAscending(bands)

	for i := len(sorted) - 1; i >= 0; i-- {
		band := sorted[i]
		if totalScore >= band.Lower && totalScore <= band.Upper {
			return band.Label, nil
		}
	}

	return "", &ClassificationError{Score: totalScore}
}
