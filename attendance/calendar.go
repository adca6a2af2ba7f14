package attendance

import (
	"time"
)

const DateLayout = "2006-01-02"

// istOffset is used when the tz database has no entry for the configured zone.
const istOffset = 5*60*60 + 30*60

// LoadLocation resolves the reference timezone, falling back to a fixed IST zone.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("IST", istOffset)
	}
	return loc
}

// CivilDate is the YYYY-MM-DD date of t in the reference zone.
func CivilDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD civil date as local midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// Days returns the civil dates, oldest first, whose day in loc overlaps the
// inclusive range [start, end]. An inverted range yields an empty slice.
func Days(start, end time.Time, loc *time.Location) []string {
	s := start.In(loc)
	e := end.In(loc)
	if s.After(e) {
		return []string{}
	}

	y, m, d := s.Date()
	ey, em, ed := e.Date()
	last := time.Date(ey, em, ed, 0, 0, 0, 0, loc)

	days := make([]string, 0, int(e.Sub(s).Hours()/24)+1)
	for i := 0; ; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		if day.After(last) {
			break
		}
		days = append(days, day.Format(DateLayout))
	}
	return days
}

// DaysBetween enumerates the civil dates from..to, both given as YYYY-MM-DD.
func DaysBetween(from, to string, loc *time.Location) ([]string, error) {
	start, err := ParseDate(from, loc)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to, loc)
	if err != nil {
		return nil, err
	}
	return Days(start, end, loc), nil
}

// MonthDays enumerates every civil date of a YYYY-MM month.
func MonthDays(month string, loc *time.Location) ([]string, error) {
	first, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return nil, err
	}
	last := first.AddDate(0, 1, -1)
	return Days(first, last, loc), nil
}
