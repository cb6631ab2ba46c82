package scoring

// levelThresholds[i] is the total points needed to reach level i+1.
var levelThresholds = [...]int{0, 100, 300, 600, 1000, 1500, 2100, 3000, 4000, 5500}

// MaxLevel is the highest reachable level. Points past the last threshold
// keep accumulating but the level stays here.
const MaxLevel = len(levelThresholds)

// Thresholds returns a copy of the level threshold table.
func Thresholds() []int {
	out := make([]int, len(levelThresholds))
	copy(out, levelThresholds[:])
	return out
}

// LevelFor returns the largest level whose threshold is <= totalPoints.
// Negative input is treated as zero.
func LevelFor(totalPoints int) int {
	for i := len(levelThresholds) - 1; i >= 0; i-- {
		if totalPoints >= levelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// NextThreshold returns the points required for the level after the one
// totalPoints sits at. ok is false at MaxLevel.
func NextThreshold(totalPoints int) (points int, ok bool) {
	level := LevelFor(totalPoints)
	if level >= MaxLevel {
		return 0, false
	}
	return levelThresholds[level], true
}
