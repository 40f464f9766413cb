// Package bangla renders numbers, months and dates in Bengali for the
// web views and printable reports.
package bangla

import (
	"strconv"
	"strings"
	"time"

	"tahbil/internal/core"
)

var digits = []rune("০১২৩৪৫৬৭৮৯")

var monthNames = map[time.Month]string{
	time.January:   "জানুয়ারি",
	time.February:  "ফেব্রুয়ারি",
	time.March:     "মার্চ",
	time.April:     "এপ্রিল",
	time.May:       "মে",
	time.June:      "জুন",
	time.July:      "জুলাই",
	time.August:    "আগস্ট",
	time.September: "সেপ্টেম্বর",
	time.October:   "অক্টোবর",
	time.November:  "নভেম্বর",
	time.December:  "ডিসেম্বর",
}

// AllMonthsLabel is the filter label meaning "no month filter".
const AllMonthsLabel = "সকল মাস"

// Digits transliterates ASCII digits in s to Bengali numerals. Every
// other rune passes through unchanged.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(digits[r-'0'])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Number renders n with Bengali numerals.
func Number(n int64) string {
	return Digits(strconv.FormatInt(n, 10))
}

// MonthLabel renders a month key as "<Bengali month> <Bengali year>".
// The sentinel "all" renders as the all-months label, and anything that
// does not parse as a month key is returned as-is.
func MonthLabel(key string) string {
	if key == "all" || key == "" {
		return AllMonthsLabel
	}
	m, err := core.ParseMonth(key)
	if err != nil {
		return key
	}
	return Month(m)
}

// Month renders a structured month as "<Bengali month> <Bengali year>".
func Month(m core.Month) string {
	return monthNames[m.Mon] + " " + Number(int64(m.Year))
}

// Date renders t as "<day> <Bengali month> <Bengali year>", the format
// used on receipts and report rows.
func Date(t time.Time) string {
	return Number(int64(t.Day())) + " " + monthNames[t.Month()] + " " + Number(int64(t.Year()))
}
