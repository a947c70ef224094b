package ipmeta

import "sort"

// Completeness weights. A coordinate pair is worth more than any other
// single field; everything else adds one point.
const (
	scoreLoc      = 3
	scoreTimezone = 1
	scoreCountry  = 1
	scoreASN      = 1
)

func completenessScore(record *Record) int {
	score := 0

	if record.Loc != "" {
		score += scoreLoc
	}

	if record.Timezone != "" {
		score += scoreTimezone
	}

	if record.Country != "" || record.CountryCode != "" {
		score += scoreCountry
	}

	if record.ASN.ASN != "" {
		score += scoreASN
	}

	return score
}

// mergeRecords ranks the records that completed in time by information
// completeness and returns the winner. Ties keep fan-out order. The
// winner's body comes from one provider but its Source lists every
// provider that answered, duplicate-free, in first-seen order after
// ranking.
func mergeRecords(results []Record) *Record {
	if len(results) == 0 {
		return nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		return completenessScore(&results[i]) > completenessScore(&results[j])
	})

	best := results[0]

	seen := map[string]bool{}
	sources := make([]string, 0, len(results))

	for _, record := range results {
		for _, source := range record.Source {
			if !seen[source] {
				seen[source] = true
				sources = append(sources, source)
			}
		}
	}

	best.Source = sources

	switch {
	case len(sources) >= 2 && best.Loc != "":
		best.Confidence = 0.9
	case best.Loc != "":
		best.Confidence = 0.7
	default:
		best.Confidence = 0.6
	}

	best.AgeMS = 0

	return &best
}
