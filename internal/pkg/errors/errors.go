package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у клиента недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, попытка активировать
	// босса, который уже завершен).
	ErrConflict = errors.New("resource state conflict")

	// ErrTransient используется, когда операция не удалась из-за временного сбоя
	// (исчерпаны ретраи к внешнему сервису) и может быть безопасно повторена целиком.
	ErrTransient = errors.New("transient failure, retry the operation")
)
