package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Рабочее окно салона: первый приём в 06:00, последний в 19:00 (до 20:00).
const (
	DefaultStartHour = 6
	DefaultEndHour   = 19
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay — время суток с точностью до минуты.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay разбирает "HH:MM" (секунды "HH:MM:SS" допускаются, если равны нулю).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) == 0 || len(p) > 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		nums[i] = n
	}
	if len(nums) == 3 && nums[2] != 0 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	t := TimeOfDay{Hour: nums[0], Minute: nums[1]}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return t, nil
}

// String возвращает "HH:MM" — в этом виде время хранится в БД.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Slot — бронируемое время начала приёма и его подпись.
type Slot struct {
	Time  TimeOfDay
	Label string
}

// EnumerateSlots перечисляет почасовые слоты с startHour по endHour включительно.
// Чистая функция.
func EnumerateSlots(startHour, endHour int) []Slot {
	if startHour < 0 || endHour > 23 || startHour > endHour {
		return []Slot{}
	}

	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	window := TimeRange{
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour+1) * time.Hour),
	}
	ranges, err := SplitToTimeSlots(window, SlotDuration)
	if err != nil {
		return []Slot{}
	}

	slots := make([]Slot, 0, len(ranges))
	for _, r := range ranges {
		h := r.Start.Hour()
		slots = append(slots, Slot{
			Time:  TimeOfDay{Hour: h},
			Label: fmt.Sprintf("%02d:00", h),
		})
	}
	return slots
}

// SlotSet — закрытое множество допустимых слотов. Генерируется один раз,
// проверка принадлежности — отдельная операция.
type SlotSet struct {
	slots []Slot
	index map[TimeOfDay]struct{}
}

func NewSlotSet(slots []Slot) *SlotSet {
	set := &SlotSet{
		slots: append([]Slot(nil), slots...),
		index: make(map[TimeOfDay]struct{}, len(slots)),
	}
	for _, s := range slots {
		set.index[s.Time] = struct{}{}
	}
	return set
}

// DefaultSlots — 14 слотов 06:00–19:00.
var DefaultSlots = NewSlotSet(EnumerateSlots(DefaultStartHour, DefaultEndHour))

// Slots возвращает копию упорядоченного списка слотов.
func (s *SlotSet) Slots() []Slot {
	return append([]Slot(nil), s.slots...)
}

func (s *SlotSet) Len() int { return len(s.slots) }

func (s *SlotSet) Contains(t TimeOfDay) bool {
	_, ok := s.index[t]
	return ok
}

// AvailableSlots вычисляет свободные слоты на дату date:
//   - убирает слоты, занятые неотменёнными бронированиями (taken);
//   - для прошедших дат возвращает пустой список;
//   - для сегодняшней даты оставляет только слоты, час которых не меньше
//     часа (now + 1h). Сравнение по часу, а не по минутам: точная
//     проверка выполняется при сохранении брони.
func AvailableSlots(date time.Time, all []Slot, taken []TimeOfDay, now time.Time) []Slot {
	busy := make(map[TimeOfDay]struct{}, len(taken))
	for _, t := range taken {
		busy[t] = struct{}{}
	}

	free := make([]Slot, 0, len(all))
	for _, s := range all {
		if _, ok := busy[s.Time]; ok {
			continue
		}
		free = append(free, s)
	}

	day := DateOf(date)
	today := DateOf(now)

	switch {
	case day.Before(today):
		return []Slot{}
	case day.Equal(today):
		allowedHour := now.Add(SlotDuration).Hour()
		filtered := free[:0]
		for _, s := range free {
			if s.Time.Hour >= allowedHour {
				filtered = append(filtered, s)
			}
		}
		return filtered
	default:
		return free
	}
}
