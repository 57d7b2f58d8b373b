package domain

import "strings"

// RatingInput carries the fields both scorers read. Missing numeric fields
// are flattened to 0 before bucketing; a scorer never fails.
type RatingInput struct {
	SurfHeightFeet float64
	WindSpeedMph   float64
	WindDirection  string // 16-point compass label
	PeriodSeconds  float64
}

// RatingStrategy maps conditions to a 1-10 quality rating.
//
// Two strategies exist on purpose: the additive scorer backs daily report
// generation and the banded scorer backs the intraday buoy-only refresh.
// They produce different numbers for the same inputs. Unifying them would
// silently change every published rating, so both stay behind this
// interface and the call site picks.
type RatingStrategy interface {
	Rate(in RatingInput) int
}

// isOffshore reports whether a compass label has a west or north component.
// For an east-facing break those winds groom the face; east/south winds blow
// it out.
func isOffshore(direction string) bool {
	direction = strings.ToUpper(strings.TrimSpace(direction))
	if direction == "" {
		return false
	}
	return strings.Contains(direction, "W") || strings.Contains(direction, "N")
}

// AdditiveRater starts from a neutral 5 and applies bounded adjustments for
// wave height band, wind, and period. Used when generating the daily report.
type AdditiveRater struct{}

func (AdditiveRater) Rate(in RatingInput) int {
	height := orZero(in.SurfHeightFeet)
	wind := orZero(in.WindSpeedMph)
	period := orZero(in.PeriodSeconds)

	score := 5

	switch {
	case height >= 3 && height <= 6:
		score += 2
	case height >= 2 && height < 3:
		score++
	case height > 6 && height <= 8:
		score++
	case height < 2:
		score -= 2
	case height > 8:
		score--
	}

	if isOffshore(in.WindDirection) {
		switch {
		case wind < 15:
			score += 2
		case wind < 20:
			score++
		}
	} else {
		if wind > 15 {
			score -= 2
		} else {
			score--
		}
	}

	if period >= 10 {
		score++
	} else if period < 6 {
		score--
	}

	return clampRating(score)
}

// WindCondition is the qualitative surface-texture bucket the banded scorer
// derives from wind direction and speed.
type WindCondition int

const (
	CondClean WindCondition = iota
	CondModerate
	CondModeratelyPoor
	CondPoor
	CondVeryPoor
)

func (c WindCondition) String() string {
	switch c {
	case CondClean:
		return "clean"
	case CondModerate:
		return "moderate"
	case CondModeratelyPoor:
		return "moderately poor"
	case CondPoor:
		return "poor"
	default:
		return "very poor"
	}
}

// ClassifyWind buckets direction and speed into a surface condition.
func ClassifyWind(direction string, speedMph float64) WindCondition {
	speedMph = orZero(speedMph)
	if isOffshore(direction) {
		switch {
		case speedMph < 12:
			return CondClean
		case speedMph < 20:
			return CondModerate
		default:
			return CondModeratelyPoor
		}
	}
	switch {
	case speedMph < 8:
		return CondModerate
	case speedMph < 15:
		return CondModeratelyPoor
	case speedMph < 25:
		return CondPoor
	default:
		return CondVeryPoor
	}
}

// downgrade worsens a condition by one bucket, saturating at very poor.
func (c WindCondition) downgrade() WindCondition {
	if c >= CondVeryPoor {
		return CondVeryPoor
	}
	return c + 1
}

// bandedRatingFor looks a rating up by height band. Columns follow the
// WindCondition order clean..very poor. Flat days score near the floor in
// any wind; overhead days stay rideable even blown out.
func bandedRatingFor(height float64, cond WindCondition) int {
	var row [5]int
	switch {
	case height <= 1.5:
		row = [5]int{2, 2, 2, 1, 1}
	case height <= 2.5:
		row = [5]int{4, 3, 3, 2, 2}
	case height < 4.5:
		row = [5]int{6, 5, 4, 3, 3}
	case height <= 6.0:
		row = [5]int{8, 7, 6, 5, 4}
	case height < 7.0:
		row = [5]int{9, 8, 7, 6, 5}
	default:
		row = [5]int{10, 9, 8, 7, 7}
	}
	return row[cond]
}

// BandedRater classifies the wind into a condition bucket, downgrades one
// bucket for short-period chop, and looks the rating up from a height table.
// Used by the intraday buoy refresh.
type BandedRater struct{}

func (BandedRater) Rate(in RatingInput) int {
	height := orZero(in.SurfHeightFeet)
	period := orZero(in.PeriodSeconds)

	cond := ClassifyWind(in.WindDirection, in.WindSpeedMph)
	if period < 6 {
		cond = cond.downgrade()
	}
	return clampRating(bandedRatingFor(height, cond))
}

func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 10 {
		return 10
	}
	return r
}
