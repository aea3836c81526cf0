package utils

import (
	"fmt"
	"strconv"
	"time"
)

const publishedLayout = "2006-01-02T15:04:05"

// ParsePublished parses a timestamp of the form YYYY-MM-DDTHH:MM:SS±HHMM.
//
// The offset is applied to the wall clock as a plain shift: '+' adds it and
// '-' subtracts it. The result carries no zone and is returned in UTC, so
// 2022-05-31T17:32:31+0300 becomes 2022-05-31 20:32:31.
func ParsePublished(s string) (time.Time, error) {
	if len(s) < len(publishedLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q is too short", s)
	}

	naive, err := time.ParseInLocation(publishedLayout, s[:len(publishedLayout)], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}

	rest := s[len(publishedLayout):]
	if rest == "" {
		return naive, nil
	}
	if len(rest) != 5 || (rest[0] != '+' && rest[0] != '-') {
		return time.Time{}, fmt.Errorf("timestamp %q has a malformed offset", s)
	}

	hours, err := strconv.Atoi(rest[1:3])
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q has a malformed offset: %w", s, err)
	}
	minutes, err := strconv.Atoi(rest[3:5])
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q has a malformed offset: %w", s, err)
	}

	shift := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if rest[0] == '-' {
		shift = -shift
	}
	return naive.Add(shift), nil
}

// FormatDisplayDate renders the date part of a publication timestamp as dd.mm.yyyy
func FormatDisplayDate(published string) string {
	if len(published) < 10 {
		return published
	}
	return published[8:10] + "." + published[5:7] + "." + published[0:4]
}
