package service

import (
	"time"
	_ "time/tzdata" // market session math needs the exchange zone on minimal images
)

// Market session bounds, Mon-Fri in the exchange's local time zone.
const (
	marketOpenHour    = 9
	marketOpenMinute  = 30
	marketCloseHour   = 16
	marketCloseMinute = 0
)

// marketTZ is the exchange time zone used for session arithmetic.
var marketTZ *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata is embedded, so this should not happen; EST keeps the
		// session math sane rather than crashing.
		loc = time.FixedZone("EST", -5*60*60)
	}
	marketTZ = loc
}

// CacheValidFunc decides whether a cached quote with the given last-refresh
// timestamp is still usable at the given moment.
type CacheValidFunc func(lastUpdated, now time.Time) bool

// QuoteCacheValid is the canonical dual-rule validity policy.
//
// A cached quote is valid if either:
//   - less than 24 hours have elapsed since it was fetched, or
//   - the market is currently closed and the quote was fetched at or after
//     the most recent session close. Prices cannot move while the exchange
//     is closed, so a quote from Friday's close stays valid through the
//     whole weekend even once it is older than 24h.
//
// During an active session only the 24h rule applies.
func QuoteCacheValid(lastUpdated, now time.Time) bool {
	if now.Sub(lastUpdated) < 24*time.Hour {
		return true
	}
	if inMarketSession(now) {
		return false
	}
	return !lastUpdated.Before(lastSessionClose(now)) && now.Before(nextSessionOpen(now))
}

// NeverValid forces a refresh regardless of cache age. Used by the explicit
// force-refresh path.
func NeverValid(_, _ time.Time) bool {
	return false
}

// inMarketSession reports whether the given instant falls inside an active
// Mon-Fri trading session in the exchange's local time.
func inMarketSession(t time.Time) bool {
	local := t.In(marketTZ)
	if !isTradingDay(local) {
		return false
	}
	open := sessionOpen(local)
	close := sessionClose(local)
	return !local.Before(open) && local.Before(close)
}

// lastSessionClose returns the most recent session close at or before now,
// skipping weekends.
func lastSessionClose(now time.Time) time.Time {
	day := now.In(marketTZ)
	for {
		if isTradingDay(day) {
			close := sessionClose(day)
			if !close.After(now) {
				return close
			}
		}
		day = day.AddDate(0, 0, -1)
	}
}

// nextSessionOpen returns the next session open strictly after now,
// skipping weekends.
func nextSessionOpen(now time.Time) time.Time {
	day := now.In(marketTZ)
	for {
		if isTradingDay(day) {
			open := sessionOpen(day)
			if open.After(now) {
				return open
			}
		}
		day = day.AddDate(0, 0, 1)
	}
}

func isTradingDay(t time.Time) bool {
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

func sessionOpen(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), marketOpenHour, marketOpenMinute, 0, 0, marketTZ)
}

func sessionClose(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), marketCloseHour, marketCloseMinute, 0, 0, marketTZ)
}
