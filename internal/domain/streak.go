package domain

import "time"

// StreakGraceDays is the largest rounded gap, in days, that still extends a streak.
const StreakGraceDays = 2

// ComputeStreak derives the session streak from the previous login and streak.
//
// Logins on the same calendar day (in now's location) leave the streak alone.
// Otherwise the absolute gap is rounded up to whole days: up to StreakGraceDays
// extends the streak, anything longer resets it to 1. A lastLogin in the future
// is measured the same way as a past one. The returned time is always now.
func ComputeStreak(lastLogin time.Time, previous int, now time.Time) (int, time.Time) {
	if previous < 1 {
		previous = 1
	}
	if sameDay(lastLogin, now) {
		return previous, now
	}
	if StreakExtends(lastLogin, now) {
		return previous + 1, now
	}
	return 1, now
}

// StreakExtends reports whether a login at now keeps the streak recorded at
// lastLogin going, either as a same-day repeat or within StreakGraceDays.
func StreakExtends(lastLogin, now time.Time) bool {
	return sameDay(lastLogin, now) || gapDays(lastLogin, now) <= StreakGraceDays
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func gapDays(a, b time.Time) int64 {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	const day = 24 * time.Hour
	days := int64(d / day)
	if d%day != 0 {
		days++
	}
	return days
}
