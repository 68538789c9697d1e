package session

const (
	// BasePoints is awarded for every correct answer.
	BasePoints = 100
	// StreakBonus is added per correct answer already in the streak.
	StreakBonus = 25
	// OpenMultiplier applies to free-text questions.
	OpenMultiplier = 3
)

// Points returns the score for a correct answer given the streak before
// the answer.
func Points(streak int, open bool) int {
	p := BasePoints + streak*StreakBonus
	if open {
		p *= OpenMultiplier
	}
	return p
}
