package stats

// ApplyPoints adds a non-negative point delta to a (level, levelPoint) pair
// and rolls points over into level-ups at 100-point thresholds. The result
// always satisfies 0 <= levelPoint < 100. This mirrors the SQL expression
// used for the stored update; keeping it here lets the invariant be tested
// without a database.
func ApplyPoints(level, levelPoint, delta int) (int, int) {
	levelPoint += delta
	for levelPoint >= 100 {
		level++
		levelPoint -= 100
	}
	return level, levelPoint
}

// PointsForAmount converts a spend into level points: one point per 100
// currency units, floored.
func PointsForAmount(amount int64) int {
	if amount < 0 {
		return 0
	}
	return int(amount / 100)
}
