// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, тарифный план и дату создания.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Поля идентичности неизменяемы после создания, кроме Name;
// Plan изменяется запросом на смену плана. Пользователи не удаляются.
type User struct {
	UID          string    `json:"uid"`        // Уникальный идентификатор пользователя
	Username     string    `json:"username"`   // Имя пользователя (уникальное, хранится в нижнем регистре)
	Email        string    `json:"email"`      // Электронная почта
	Name         string    `json:"name"`       // Отображаемое имя (по умолчанию совпадает с username)
	PasswordHash string    `json:"-"`          // Хэш пароля, никогда не сериализуется в ответы
	Plan         Plan      `json:"plan"`       // Тарифный план
	CreatedAt    time.Time `json:"created_at"` // Дата регистрации, неизменяемая
}
