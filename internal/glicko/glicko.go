// Package glicko implements a Glicko-style single-game rating update.
// A team match is scored by updating every member as if they played one
// game against a virtual opponent whose rating and deviation are the
// opposing team's averages.
package glicko

import "math"

const (
	// scaleFactor converts between the display scale and the internal
	// Glicko scale: 400/ln(10).
	scaleFactor = 173.7178

	// centerRating is the display-scale rating that maps to 0 internally.
	centerRating = 1500

	// volatility inflates a player's deviation before each update to
	// model rating drift since their last game.
	volatility = 0.06
)

// Rating pairs a skill estimate with its deviation.
type Rating struct {
	Rating    float64
	Deviation float64
}

// NewTeamRatings computes post-match ratings for two opposing teams.
// Score is 1 when team1 won and 0 when team2 won. Each member plays a
// single virtual game as (own team's average rating, own deviation)
// against (opposing team's average rating, opposing team's average
// deviation); team2 members are scored with 1-score.
//
// Returned ratings and deltas are aligned with the input order, so
// callers can show signed changes directly.
func NewTeamRatings(team1, team2 []Rating, score float64) (new1, new2 []Rating, deltas1, deltas2 []float64) {
	avgRating1, avgDev1 := averages(team1)
	avgRating2, avgDev2 := averages(team2)

	new1 = make([]Rating, 0, len(team1))
	deltas1 = make([]float64, 0, len(team1))
	for _, p := range team1 {
		ratingDelta, devDelta := ratingChange(avgRating1, p.Deviation, avgRating2, avgDev2, score)
		deltas1 = append(deltas1, ratingDelta)
		new1 = append(new1, Rating{
			Rating:    p.Rating + ratingDelta,
			Deviation: p.Deviation + devDelta,
		})
	}

	new2 = make([]Rating, 0, len(team2))
	deltas2 = make([]float64, 0, len(team2))
	for _, p := range team2 {
		ratingDelta, devDelta := ratingChange(avgRating2, p.Deviation, avgRating1, avgDev1, 1-score)
		deltas2 = append(deltas2, ratingDelta)
		new2 = append(new2, Rating{
			Rating:    p.Rating + ratingDelta,
			Deviation: p.Deviation + devDelta,
		})
	}

	return new1, new2, deltas1, deltas2
}

// ratingChange computes the rating and deviation change for one player
// after a single game against one opponent. Score 1 is a win, 0 a loss.
func ratingChange(rating1, dev1, rating2, dev2, score float64) (ratingDelta, devDelta float64) {
	// Convert to the internal scale, centered at 1500.
	r1 := (rating1 - centerRating) / scaleFactor
	r2 := (rating2 - centerRating) / scaleFactor
	d1 := dev1 / scaleFactor
	d2 := dev2 / scaleFactor

	e := expectedScore(r1, r2, d2)

	// v measures how much information the match carries about r1.
	v := 1 / (g(d2) * g(d2) * e * (1 - e))

	// Inflate the pre-match deviation, then blend with v to get the
	// post-match deviation.
	dStar := math.Sqrt(d1*d1 + volatility*volatility)
	dPrime := 1 / math.Sqrt(1/(dStar*dStar)+1/v)

	r1Prime := r1 + dPrime*dPrime*g(d2)*(score-e)

	// Back to the display scale, rounded to whole points.
	ratingDelta = math.Round(r1Prime*scaleFactor+centerRating) - rating1
	devDelta = math.Round(dPrime*scaleFactor) - dev1

	return ratingDelta, devDelta
}

// g down-weights results against opponents whose own rating is
// uncertain.
func g(dev float64) float64 {
	return 1 / math.Sqrt(1+3*dev*dev/(math.Pi*math.Pi))
}

// expectedScore is the win probability of r1 against r2 given the
// opponent's deviation.
func expectedScore(r1, r2, dev2 float64) float64 {
	return 1 / (1 + math.Exp(-g(dev2)*(r1-r2)))
}

func averages(team []Rating) (avgRating, avgDeviation float64) {
	if len(team) == 0 {
		return 0, 0
	}

	for _, p := range team {
		avgRating += p.Rating
		avgDeviation += p.Deviation
	}

	n := float64(len(team))
	return avgRating / n, avgDeviation / n
}
