package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var journalPattern = regexp.MustCompile(`(\d{4})-?(\d{2})-?(\d{2})(?:\D|$)`)

// JournalDay extracts a YYYYMMDD day from names such as "2024-03-09",
// "20240309" or "2024-03-09 Saturday".
func JournalDay(name string) (int, bool) {
	m := journalPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	if _, err := time.Parse("20060102", m[1]+m[2]+m[3]); err != nil {
		return 0, false
	}
	day, _ := strconv.Atoi(m[1] + m[2] + m[3])
	return day, true
}

// FormatJournalDay renders a YYYYMMDD day with the given separator.
func FormatJournalDay(day int, sep string) string {
	s := fmt.Sprintf("%08d", day)
	return s[0:4] + sep + s[4:6] + sep + s[6:8]
}

// Today returns the journal day of t.
func Today(t time.Time) int {
	day, _ := strconv.Atoi(t.Format("20060102"))
	return day
}
