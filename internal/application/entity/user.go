package entity

import "time"

// User локальная проекция пользователя из внешнего справочника, нужна только для имени автора
type User struct {
	ID        string    `json:"id" validate:"required,max=100"`
	Name      string    `json:"name" validate:"required,max=200"`
	UpdatedAt time.Time `json:"updatedAt"`
}
