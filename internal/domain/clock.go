package domain

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidTime = errors.New("invalid time, expected HH:MM")

var clockRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// ParseClock parses a kill time of day like "13:30" or "7:05".
func ParseClock(s string) (hh, mm int, err error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, ErrInvalidTime
	}
	hh, _ = strconv.Atoi(m[1])
	mm, _ = strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return 0, 0, ErrInvalidTime
	}
	return hh, mm, nil
}

// ComputeOccurrence builds the kill time as today's date (the calendar
// date of now in loc) at hh:mm and derives the next spawn from the
// catalog cycle. The clock time is taken literally: a kill time ahead
// of now is kept on today's date, not rolled back a day, since the
// user is recording when the kill happened on the current day.
func ComputeOccurrence(name string, hh, mm int, now time.Time, loc *time.Location) (killedAt, spawnsAt time.Time, cycle int, err error) {
	_, cycle, err = CycleHours(name)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return time.Time{}, time.Time{}, 0, ErrInvalidTime
	}
	local := now.In(loc)
	killedAt = time.Date(local.Year(), local.Month(), local.Day(), hh, mm, 0, 0, loc)
	spawnsAt = killedAt.Add(time.Duration(cycle) * time.Hour)
	return killedAt, spawnsAt, cycle, nil
}
