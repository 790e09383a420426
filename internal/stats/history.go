package stats

import "math"

// appendMovement adds p to the history, evicting the oldest samples so that
// at most limit remain.
func appendMovement(history []Position, p Position, limit int) []Position {
	if limit <= 0 {
		return history[:0]
	}
	if len(history) >= limit {
		// Shift in place so the backing array never grows past limit.
		n := copy(history, history[len(history)-limit+1:])
		history = history[:n]
	}
	return append(history, p)
}

// averageSpeed returns path length over elapsed time for the history window,
// in units per second. Fewer than two samples or no elapsed time yields 0.
func averageSpeed(history []Position) float64 {
	if len(history) < 2 {
		return 0
	}
	elapsed := float64(history[len(history)-1].Time-history[0].Time) / 1000
	if elapsed <= 0 {
		return 0
	}
	var dist float64
	for i := 1; i < len(history); i++ {
		a, b := history[i-1], history[i]
		dist += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return dist / elapsed
}
