package service

import (
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/model"
)

// RecurrenceDays is the length of a monthly pass.
const RecurrenceDays = 30

// ConflictReport names the specific dates blocking a monthly request so
// the user can pick another cabin instead of staring at a generic
// failure.
type ConflictReport struct {
    HasConflicts  bool     `json:"has_conflicts"`
    ConflictDates []string `json:"conflict_dates"`
}

// conflictDateFormat renders blocked dates the way they are surfaced to
// users, e.g. "Jan 15".
const conflictDateFormat = "Jan 2"

// scanRecurrence walks the 30 candidate dates of a monthly request,
// re-derives each day's concrete interval from the selection's earliest
// start and latest end, and overlap-tests it against the pre-fetched rows.
// Pure: the single range query that feeds it happens in the caller.
func scanRecurrence(startDay time.Time, types []batch.Type, holds []model.Hold, bookings []model.Booking, now time.Time) ConflictReport {
    earliest, latest := batch.Span(types)
    report := ConflictReport{ConflictDates: []string{}}
    for i := 0; i < RecurrenceDays; i++ {
        day := startDay.AddDate(0, 0, i)
        end := day.Add(latest)
        iv := batch.Interval{
            Start:     day.Add(earliest),
            End:       end,
            BufferEnd: end.Add(batch.Buffer),
        }
        if model.HasConflict([]batch.Interval{iv}, holds, bookings, "", now) {
            report.ConflictDates = append(report.ConflictDates, day.Format(conflictDateFormat))
        }
    }
    report.HasConflicts = len(report.ConflictDates) > 0
    return report
}
