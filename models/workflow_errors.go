package models

import "github.com/pkg/errors"

// Базовые ошибки процесса выпуска. Обработчики оборачивают их через
// errors.Wrap, контроллеры сопоставляют с HTTP кодами через errors.Is.
var (
	ErrNotFound               = errors.New("запись не найдена")
	ErrInvalidStateTransition = errors.New("операция недопустима в текущем статусе")
	ErrPermissionDenied       = errors.New("недостаточно прав для выполнения операции")
	ErrValidation             = errors.New("некорректные данные запроса")
	ErrConcurrencyConflict    = errors.New("запись изменяется другим пользователем, повторите попытку")
)
