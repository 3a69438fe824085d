package calendar

// Span is an inclusive run of calendar days.
type Span struct {
	Start Time `json:"start"`
	End   Time `json:"end"`
}

// Contains reports whether t falls on a day within the span.
func (s Span) Contains(t Time) bool {
	if !t.valid || !s.Start.valid || !s.End.valid {
		return false
	}
	d := t.Day()
	return !d.Before(s.Start.Day()) && !d.After(s.End.Day())
}

// Days returns every day of the span in ascending order.
func (s Span) Days() []Time {
	out := []Time{}
	if !s.Start.valid || !s.End.valid {
		return out
	}
	end := s.End.Day()
	for d := s.Start.Day(); !d.After(end); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// WeekOf returns the Sunday-to-Saturday week containing t.
func WeekOf(t Time) Span {
	start := StartOfWeek(t)
	return Span{Start: start, End: start.AddDays(6)}
}

// NextWeekOf returns the seven days that follow WeekOf(t).
func NextWeekOf(t Time) Span {
	start := StartOfWeek(t).AddDays(7)
	return Span{Start: start, End: start.AddDays(6)}
}

// Trailing returns [today-days, today].
func Trailing(now Time, days int) Span {
	today := now.Day()
	return Span{Start: today.AddDays(-days), End: today}
}

// Upcoming returns the days after today up to today+days, excluding today.
func Upcoming(now Time, days int) Span {
	today, last := DaysFromNow(now, days)
	return Span{Start: today.AddDays(1), End: last}
}

// WeekToDate returns [start of week, today].
func WeekToDate(now Time) Span {
	return Span{Start: StartOfWeek(now), End: now.Day()}
}

// MonthToDate returns [start of month, today].
func MonthToDate(now Time) Span {
	return Span{Start: StartOfMonth(now), End: now.Day()}
}
