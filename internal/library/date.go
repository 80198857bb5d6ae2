package library

import (
	"fmt"
	"regexp"
	"strconv"
)

// Date is a calendar date extracted from a YYYY-MM-DD tag. Totally ordered.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// Before reports whether d precedes other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

var dateTag = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ExtractDate scans tags in order and returns the first one shaped like
// YYYY-MM-DD, or nil when none matches. The match is purely syntactic:
// 2023-13-40 is accepted, matching the regex-first-hit policy.
func ExtractDate(tags []string) *Date {
	for _, tag := range tags {
		m := dateTag.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		year, err := strconv.ParseUint(m[1], 10, 16)
		if err != nil {
			continue
		}
		month, err := strconv.ParseUint(m[2], 10, 8)
		if err != nil {
			continue
		}
		day, err := strconv.ParseUint(m[3], 10, 8)
		if err != nil {
			continue
		}
		return &Date{Year: uint16(year), Month: uint8(month), Day: uint8(day)}
	}
	return nil
}
