// Package streak holds the attendance streak and reward math. The functions
// are pure so the session repository can run them inside its transaction and
// never commit a check-in whose counters disagree with it.
package streak

import (
	"time"

	"checkin-backend/internal/models"
)

// Advance returns the streak value after a check-in at now. The streak grows
// by one when the gap since the previous check-in stays within resetDays and
// restarts at 1 otherwise. Gaps are whole calendar days, so a second service
// on the same day does not grow the streak.
func Advance(prev *time.Time, now time.Time, resetDays, current int) int {
	if prev == nil || current < 1 {
		return 1
	}
	gap := daysBetween(*prev, now)
	if gap == 0 {
		return current
	}
	if gap <= resetDays {
		return current + 1
	}
	return 1
}

// daysBetween counts whole calendar days from a to b (UTC dates)
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// Evaluate returns the enabled rewards this check-in just triggered. A streak
// reward fires when the streak lands exactly on its threshold, and only on
// the transition: a same-day service keeps the streak value, so prev == new
// suppresses a double fire, while a reset that climbs back to the threshold
// fires again. Total-checkins rewards only ever count up, so exact equality
// fires them once.
func Evaluate(rewards []models.Reward, prevStreak, streakVal, totalCheckins int) []models.Reward {
	var fired []models.Reward
	for _, r := range rewards {
		if !r.Enabled {
			continue
		}
		switch r.TriggerType {
		case models.RewardTriggerStreak:
			if streakVal == r.TriggerValue && prevStreak != r.TriggerValue {
				fired = append(fired, r)
			}
		case models.RewardTriggerTotalCheckins:
			if totalCheckins == r.TriggerValue {
				fired = append(fired, r)
			}
		}
	}
	return fired
}
