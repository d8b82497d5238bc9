package duration

import (
	"testing"
)

func TestElapsedWhileRunning_SubtractsPausedTime(t *testing.T) {
	// 70s wall clock, 30s paused.
	got := ElapsedWhileRunning(70_000, 0, 30_000)
	if got != 40 {
		t.Fatalf("expected 40s elapsed, got %d", got)
	}
}

func TestElapsedWhileRunning_FloorsSubSecond(t *testing.T) {
	got := ElapsedWhileRunning(1_999, 0, 0)
	if got != 1 {
		t.Fatalf("expected 1s (floored), got %d", got)
	}
}

func TestElapsedWhileRunning_ClampsNegative(t *testing.T) {
	got := ElapsedWhileRunning(5_000, 10_000, 0)
	if got != 0 {
		t.Fatalf("expected 0 on clock skew, got %d", got)
	}
}

func TestElapsedAtPause_FreezesAtPauseStart(t *testing.T) {
	// Paused at t=10s; regardless of how long the pause lasts, the frozen
	// display stays at 10s.
	got := ElapsedAtPause(10_000, 0, 0)
	if got != 10 {
		t.Fatalf("expected 10s frozen, got %d", got)
	}
}

func TestFoldPauseInterval_ReturnsInterval(t *testing.T) {
	got := FoldPauseInterval(10_000, 40_000)
	if got != 30_000 {
		t.Fatalf("expected 30000ms fold, got %d", got)
	}
}

func TestFoldPauseInterval_ClampsSkew(t *testing.T) {
	got := FoldPauseInterval(40_000, 10_000)
	if got != 0 {
		t.Fatalf("expected 0 on skew, got %d", got)
	}
}

func TestFinalizeDuration_PauseResumeStop(t *testing.T) {
	// Start at 0, pause at 10s, resume at 40s, stop at 70s.
	paused := FoldPauseInterval(10_000, 40_000)
	if paused != 30_000 {
		t.Fatalf("expected 30000ms paused, got %d", paused)
	}
	got := FinalizeDuration(70_000, 0, paused)
	if got != 40 {
		t.Fatalf("expected 40s final duration, got %d", got)
	}
}

func TestFinalizeDuration_NeverNegative(t *testing.T) {
	got := FinalizeDuration(10_000, 0, 60_000)
	if got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}

func TestFinalizeDuration_MonotoneInPausedTime(t *testing.T) {
	prev := FinalizeDuration(100_000, 0, 0)
	for pausedMs := int64(0); pausedMs <= 120_000; pausedMs += 7_000 {
		cur := FinalizeDuration(100_000, 0, pausedMs)
		if cur > prev {
			t.Fatalf("duration grew as paused time grew: %d -> %d at pausedMs=%d", prev, cur, pausedMs)
		}
		prev = cur
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3_600, "01:00:00"},
		{30_600, "08:30:00"},
		{360_000, "100:00:00"},
		{-5, "00:00:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.seconds); got != tc.want {
			t.Fatalf("FormatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
