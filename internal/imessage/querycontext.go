package imessage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lrhodin/imessage-export/internal/dates"
)

// InvalidDateError reports a query-context date string that failed
// validation in SanitizeDate.
type InvalidDateError struct{ Date string }

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("imessage: invalid date filter %q, expected YYYY-MM-DD", e.Date)
}

// QueryContext carries the filters applied to a C8 streaming query, per
// spec.md §4.8.
type QueryContext struct {
	Start              *int64 // Apple-epoch ns
	End                *int64 // Apple-epoch ns
	SelectedChatIDs    []int
	SelectedHandleIDs  []int
}

// SetStart parses and sets the start date filter (inclusive).
func (q *QueryContext) SetStart(date string) error {
	ts, err := SanitizeDate(date)
	if err != nil {
		return err
	}
	q.Start = &ts
	return nil
}

// SetEnd parses and sets the end date filter. The bound is local midnight at
// the start of date, so messages sent later on that day are excluded.
func (q *QueryContext) SetEnd(date string) error {
	ts, err := SanitizeDate(date)
	if err != nil {
		return err
	}
	q.End = &ts
	return nil
}

// SetSelectedChatIDs sets the chat-id filter; an empty slice clears it (nil
// filter == no restriction), matching the teacher's "empty set is no
// filter" convention.
func (q *QueryContext) SetSelectedChatIDs(ids []int) {
	if len(ids) == 0 {
		q.SelectedChatIDs = nil
		return
	}
	q.SelectedChatIDs = append([]int(nil), ids...)
}

// SetSelectedHandleIDs sets the handle-id filter; an empty slice clears it.
func (q *QueryContext) SetSelectedHandleIDs(ids []int) {
	if len(ids) == 0 {
		q.SelectedHandleIDs = nil
		return
	}
	q.SelectedHandleIDs = append([]int(nil), ids...)
}

// HasFilters reports whether any filter is set.
func (q *QueryContext) HasFilters() bool {
	return q.Start != nil || q.End != nil || len(q.SelectedChatIDs) > 0 || len(q.SelectedHandleIDs) > 0
}

// SanitizeDate validates a "YYYY-MM-DD" date string by manual byte-range
// slicing (matching original_source's QueryContext::sanitize_date exactly,
// rather than a permissive time.Parse) and converts midnight local time on
// that date to Apple-epoch nanoseconds.
func SanitizeDate(date string) (int64, error) {
	invalid := &InvalidDateError{Date: date}
	if len(date) < 9 {
		return 0, invalid
	}
	if date[4] != '-' {
		return 0, invalid
	}
	year, err := strconv.Atoi(date[0:4])
	if err != nil {
		return 0, invalid
	}
	month, err := strconv.Atoi(date[5:7])
	if err != nil || month > 12 {
		return 0, invalid
	}
	if date[7] != '-' {
		return 0, invalid
	}
	day, err := strconv.Atoi(date[8:])
	if err != nil || day > 31 {
		return 0, invalid
	}

	local := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	return dates.FromTime(local), nil
}
