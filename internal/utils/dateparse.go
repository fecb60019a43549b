package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRe = regexp.MustCompile(`^(?:in\s+)?\+?(\d+)\s*(d|day|days|w|week|weeks|m|month|months)(?:\s+later)?$`)
	weekdayRe  = regexp.MustCompile(`^(?:next\s+|this\s+)?(sun|mon|tue|wed|thu|fri|sat)[a-z]*$`)
)

// ParseFlexibleDate parses trip dates typed on the command line. Relative
// inputs are resolved against now and look forward: "friday" is the coming
// Friday and "Dec 6" without a year is the next Dec 6 from today.
func ParseFlexibleDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch input {
	case "today", "now":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "weekend", "this weekend":
		return nextWeekday(today, time.Saturday, true), nil
	}

	if strings.HasPrefix(input, "next ") {
		switch strings.TrimPrefix(input, "next ") {
		case "week":
			// Monday of next week
			offset := (8 - int(today.Weekday())) % 7
			if offset == 0 {
				offset = 7
			}
			return today.AddDate(0, 0, offset), nil
		case "month":
			return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, loc), nil
		case "year":
			return time.Date(today.Year()+1, 1, 1, 0, 0, 0, 0, loc), nil
		}
	}

	if m := relativeRe.FindStringSubmatch(input); m != nil {
		return shift(today, m[1], m[2]), nil
	}

	if m := weekdayRe.FindStringSubmatch(input); m != nil {
		wd := weekdays[m[1]]
		return nextWeekday(today, wd, !strings.HasPrefix(input, "next ")), nil
	}

	// Formats carrying a year
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"Jan 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"2 January 2006",
		"2006-01-02 15:04",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, input, loc); err == nil {
			return t, nil
		}
	}

	// Month and day only: the next occurrence, today included
	for _, format := range []string{"Jan 2", "January 2", "2 Jan", "2 January", "01/02", "01-02"} {
		t, err := time.ParseInLocation(format, input, loc)
		if err != nil {
			continue
		}
		d := time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if d.Before(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// nextWeekday finds the next wd after day, or day itself when includeToday.
func nextWeekday(day time.Time, wd time.Weekday, includeToday bool) time.Time {
	offset := (int(wd) - int(day.Weekday()) + 7) % 7
	if offset == 0 && !includeToday {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}

func shift(day time.Time, num, unit string) time.Time {
	n, _ := strconv.Atoi(num)
	switch unit {
	case "w", "week", "weeks":
		return day.AddDate(0, 0, 7*n)
	case "m", "month", "months":
		return day.AddDate(0, n, 0)
	default:
		return day.AddDate(0, 0, n)
	}
}

// ParseTripRange parses the --from/--to pair. to may be relative to from
// ("+3d", "5 days"); either side may be empty.
func ParseTripRange(from, to string, now time.Time) (start, end *time.Time, err error) {
	if strings.TrimSpace(from) != "" {
		t, err := ParseFlexibleDate(from, now)
		if err != nil {
			return nil, nil, fmt.Errorf("--from: %w", err)
		}
		start = &t
	}
	if strings.TrimSpace(to) != "" {
		to = strings.TrimSpace(strings.ToLower(to))
		if m := relativeRe.FindStringSubmatch(to); m != nil && start != nil {
			t := shift(*start, m[1], m[2])
			end = &t
		} else {
			t, err := ParseFlexibleDate(to, now)
			if err != nil {
				return nil, nil, fmt.Errorf("--to: %w", err)
			}
			end = &t
		}
	}
	return start, end, nil
}
