package teacher

import "fmt"

const (
	PointsPerFeedback = 30
	PointsPerLevel    = 500
)

// LevelFor derives the level from the points total. It is never stored independently of points.
func LevelFor(points int) int {
	return points/PointsPerLevel + 1
}

// Award is the result of crediting a teacher for one feedback.
type Award struct {
	Points   int
	Level    int
	LevelUp  bool
	Previous int // points before the award
}

// NewAward computes the ledger entry for crediting `earned` points on top of `newPoints - earned`.
// Stores pass the total they wrote so the level is derived from what was persisted.
func NewAward(newPoints, earned int) Award {
	prev := newPoints - earned
	return Award{
		Points:   newPoints,
		Level:    LevelFor(newPoints),
		LevelUp:  LevelFor(newPoints) > LevelFor(prev),
		Previous: prev,
	}
}

// LevelAchievement is recorded when an award moves the teacher to a new level.
func LevelAchievement(level int) (title, description string) {
	return fmt.Sprintf("Reached level %d", level),
		fmt.Sprintf("Earned %d points by giving student feedback", (level-1)*PointsPerLevel)
}
