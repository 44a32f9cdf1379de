// Package services содержит общие ошибки бизнес-уровня, которые HTTP-слой
// транслирует в статусы ответов: владение чужой записью и ограничения плана
// дают 403, квота — 403 с именем плана в сообщении.
package services

import (
	"errors"
	"fmt"
)

// ErrNotOwner возвращается при попытке доступа к чужой записи.
var ErrNotOwner = errors.New("record belongs to another user")

// ErrPlanRequired возвращается, когда операция недоступна на текущем плане.
var ErrPlanRequired = errors.New("operation is not available on the current plan")

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// QuotaError сообщает об исчерпании месячной квоты сканирований.
// Текст обязан содержать отображаемое имя плана.
type QuotaError struct {
	Plan string // Отображаемое имя плана ("Base", "Premium", "Pro")
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf(
		"you've reached your monthly scan limit for the %s plan, please upgrade to continue scanning",
		e.Plan)
}
