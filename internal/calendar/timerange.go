package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

// SlotDuration — длительность одного приёма.
const SlotDuration = time.Hour

// TimeRange представляет временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал и делает простую валидацию.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Contains сообщает, попадает ли t в [Start, End).
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// SplitToTimeSlots разбивает интервал на слоты фиксированной длительности.
// "Хвост" меньшей длительности, чем slotDuration, отбрасывается.
func SplitToTimeSlots(tr TimeRange, slotDuration time.Duration) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !tr.End.After(tr.Start) {
		return []TimeRange{}, nil
	}

	var slots []TimeRange
	for cur := tr.Start; !cur.Add(slotDuration).After(tr.End); cur = cur.Add(slotDuration) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotDuration)})
	}
	return slots, nil
}

// DateOf отбрасывает время суток: календарная дата хранится как полночь UTC,
// независимо от таймзоны салона.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartsAt собирает момент начала приёма из календарной даты и времени
// суток в таймзоне loc.
func StartsAt(date time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, loc)
}

// SlotRange — интервал приёма [start, start+1h).
func SlotRange(date time.Time, tod TimeOfDay, loc *time.Location) TimeRange {
	start := StartsAt(date, tod, loc)
	return TimeRange{Start: start, End: start.Add(SlotDuration)}
}

// FormatSlot форматирует интервал в человекочитаемую строку, например
// "Friday, 16 Oct 2026, 10:00–11:00". Если loc != nil, время переводится
// в указанный часовой пояс.
func FormatSlot(tr TimeRange, loc *time.Location) string {
	start, end := tr.Start, tr.End
	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}
	return fmt.Sprintf("%s, %s, %s–%s",
		start.Weekday(),
		start.Format("02 Jan 2006"),
		start.Format("15:04"),
		end.Format("15:04"),
	)
}
