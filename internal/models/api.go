// models описывает REST-модели удалённого task-manager API.
// Формы зеркалят ответы бэкенда: корневой конверт
// {success, message?, data?, meta?, error?} и полезные нагрузки внутри data.
package models

import "encoding/json"

// Envelope — корневой конверт любого ответа удалённого API.
// Data разбирается отложенно: конкретный тип знает только вызывающий метод.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
	Error   *EnvelopeError  `json:"error,omitempty"`
}

// Meta — пагинация списочных ответов.
type Meta struct {
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"totalPages,omitempty"`
}

// EnvelopeError — вложенная ошибка конверта.
type EnvelopeError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
