// Package month содержит вспомогательные функции для работы с календарными
// месяцами: месячная квота сканирований считается от первого числа текущего
// месяца включительно.
package month

import "time"

// Start возвращает начало календарного месяца (первое число, полночь)
// для переданного момента времени в его локации.
func Start(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Contains сообщает, попадает ли момент t в тот же календарный месяц, что и ref.
func Contains(ref, t time.Time) bool {
	start := Start(ref)
	return !t.Before(start) && t.Before(start.AddDate(0, 1, 0))
}
