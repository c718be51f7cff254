package calendar

import "time"

// Clock — источник текущего времени. Все проверки "не в прошлом" и
// фильтрация слотов берут время только отсюда.
type Clock interface {
	Now() time.Time
}

// SystemClock отдаёт реальное время в заданной таймзоне салона.
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// ClockFunc позволяет подставить функцию в качестве Clock (удобно в тестах).
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FixedClock всегда возвращает t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
