// Package duration holds the pure time arithmetic of the worklog timer.
// Inputs are epoch milliseconds, elapsed results are whole seconds.
package duration

import (
	"fmt"
)

// ElapsedWhileRunning is the displayed elapsed seconds for a running session.
func ElapsedWhileRunning(nowMs, startTimeMs, totalPausedMs int64) int64 {
	return clampSeconds(nowMs - startTimeMs - totalPausedMs)
}

// ElapsedAtPause is the frozen elapsed seconds while paused; the pause start
// acts as the clock-stop point.
func ElapsedAtPause(pauseStartMs, startTimeMs, totalPausedMs int64) int64 {
	return clampSeconds(pauseStartMs - startTimeMs - totalPausedMs)
}

// FoldPauseInterval converts an open pause period into milliseconds to add to
// the cumulative paused total. Clamped to 0 on clock skew.
func FoldPauseInterval(pauseStartMs, nowMs int64) int64 {
	d := nowMs - pauseStartMs
	if d < 0 {
		return 0
	}
	return d
}

// FinalizeDuration is the frozen duration of a completed session in seconds,
// never negative even when the paused total exceeds the wall-clock span.
func FinalizeDuration(endTimeMs, startTimeMs, totalPausedMs int64) int64 {
	return clampSeconds(endTimeMs - startTimeMs - totalPausedMs)
}

func clampSeconds(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms / 1000
}

// FormatClock renders seconds as HH:MM:SS, hours unpadded past 99.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
