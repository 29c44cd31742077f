package recurrence

// Expand returns the days on which rule occurs, in ascending order and without
// duplicates. A nil window expands the whole lifetime of the rule.
//
// Daily and Weekly rules without an end repeat date have no finite lifetime;
// without a window they collapse to the anchor date alone (see Rule.Unbounded),
// even when the rule's weekdays exclude the anchor. Callers that need an
// open-ended calendar must pass a window.
//
// Expand is pure and safe for concurrent use.
func Expand(rule Rule, window *DateRange) []Date {
	if rule.Repeat == DoesNotRepeat {
		if window != nil && !window.Contains(rule.AnchorDate) {
			return nil
		}
		return []Date{rule.AnchorDate}
	}
	if rule.Unbounded(window) {
		return []Date{rule.AnchorDate}
	}

	first, last, ok := bounds(rule, window)
	if !ok {
		return nil
	}

	match := matcher(rule)
	dates := make([]Date, 0, first.DaysUntil(last)+1)
	for d := first; !d.After(last); d = d.AddDays(1) {
		if match(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// bounds computes the inclusive effective range of a bounded repeating rule:
// at least one of window and rule.EndRepeatDate is set.
func bounds(rule Rule, window *DateRange) (first, last Date, ok bool) {
	first = rule.AnchorDate
	if window != nil {
		first = maxDate(first, window.Start)
		last = window.End
	} else {
		last = *rule.EndRepeatDate
	}
	if rule.EndRepeatDate != nil {
		last = minDate(last, *rule.EndRepeatDate)
	}
	return first, last, !first.After(last)
}

func matcher(rule Rule) func(Date) bool {
	switch rule.Repeat {
	case Daily:
		return func(Date) bool { return true }
	case Weekly:
		if rule.DaysOfWeek == nil || rule.DaysOfWeek.IsEmpty() {
			anchor := rule.AnchorDate.Weekday()
			return func(d Date) bool { return d.Weekday() == anchor }
		}
		days := *rule.DaysOfWeek
		return func(d Date) bool { return days.Has(d.Weekday()) }
	default:
		return func(Date) bool { return false }
	}
}
