// Package dates turns spreadsheet date cells into canonical YYYY-MM-DD strings.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/herdbook/pkg/constants"
)

// MinYear is the first year accepted as a real date. Anything earlier is a
// spreadsheet "no date entered" placeholder (1900-01-01, serial 0, ...).
const MinYear = 1901

// Layouts are tried in order. Month-first numeric forms come before their
// day-first counterparts, so 01/05/2024 is January 5 and 31/12/2024 can only
// be day-first.
var layouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006-1-2 15:4:5",
	"2006/1/2 15:4:5",
	"2006-1-2 15:4",
	"2006/1/2 15:4",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1-2-2006",
	"1/2/2006 15:4:5",
	"1/2/2006 15:4",
	"2/1/2006",
	"2-1-2006",
	"2/1/2006 15:4:5",
	"2/1/2006 15:4",
	"2.1.2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"20060102",
	"2006",
}

var serialPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Normalize returns the canonical form of raw and true, or "" and false when
// raw is blank, unparseable or a placeholder year.
func Normalize(raw string) (string, bool) {
	t, ok := Parse(raw)
	if !ok {
		return "", false
	}
	return t.Format(constants.DateLayout), true
}

// Parse is Normalize without the formatting step.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, ok := parse(s)
	if !ok || t.Year() < MinYear {
		return time.Time{}, false
	}
	return t, true
}

func parse(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if serialPattern.MatchString(s) {
		return fromSerial(s)
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f > 2958465 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
