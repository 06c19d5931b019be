package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout формат календарной даты в API и в ответах
	DateLayout = "2006-01-02"
	// ClockLayout формат времени суток после нормализации
	ClockLayout = "15:04"
)

var (
	reClock = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

	ErrClockFormat = errors.New("invalid time format, expected HH:MM")
	ErrDateFormat  = errors.New("invalid date format, expected YYYY-MM-DD")
)

// Slot интервал события внутри одного дня, время в формате HH:MM
type Slot struct {
	StartTime string
	EndTime   string
}

// ValidClock проверяет формат H:MM / HH:MM (часы 0-23, минуты 0-59).
func ValidClock(s string) bool {
	return reClock.MatchString(s)
}

// NormalizeClock возвращает время всегда с двузначным часом ("9:05" -> "09:05").
// Лексический порядок нормализованных строк совпадает с хронологическим.
func NormalizeClock(s string) (string, error) {
	m := reClock.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", ErrClockFormat
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2]), nil
}

// TimeToMinutes переводит HH:MM в минуты от полуночи.
// Строка должна быть предварительно проверена через ValidClock.
func TimeToMinutes(s string) int {
	h, m, _ := strings.Cut(s, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}

// ParseDate принимает YYYY-MM-DD или RFC3339 и возвращает полночь этого календарного дня.
// Для RFC3339 берутся календарные поля в исходном смещении, без перевода часовых поясов.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return StartOfDay(t), nil
}

// StartOfDay 00:00:00.000 календарного дня t (в UTC, чтобы pgx не сдвигал timestamp).
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow границы дня [00:00:00.000, 23:59:59.999] по календарным полям даты.
func DayWindow(date time.Time) (start, end time.Time) {
	start = StartOfDay(date)
	end = time.Date(start.Year(), start.Month(), start.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}

// Overlaps полуоткрытые интервалы [start, end): касание границ пересечением не считается.
func Overlaps(a, b Slot) bool {
	aStart, aEnd := TimeToMinutes(a.StartTime), TimeToMinutes(a.EndTime)
	bStart, bEnd := TimeToMinutes(b.StartTime), TimeToMinutes(b.EndTime)
	return aStart < bEnd && bStart < aEnd
}

// FindOverlap возвращает индекс первого кандидата, пересекающегося с slot, или -1.
// Порядок кандидатов задаёт вызывающий код.
func FindOverlap[T any](candidates []T, slot Slot, slotOf func(T) Slot) int {
	for i, c := range candidates {
		if Overlaps(slot, slotOf(c)) {
			return i
		}
	}
	return -1
}
