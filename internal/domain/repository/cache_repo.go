package repository

import (
	"time"
)

// CacheRepository определяет методы кеширования (Redis).
// Используется для короткоживущего кеша статуса челленджа и для
// дедупликации широковещательного события о победе над боссом.
type CacheRepository interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
	Exists(key string) (bool, error)
	GetJSON(key string, dest interface{}) error
	SetJSON(key string, value interface{}, expiration time.Duration) error

	// SetNX устанавливает значение, только если ключ не существует.
	// Возвращает true, если ключ установил этот вызов.
	SetNX(key string, value interface{}, expiration time.Duration) (bool, error)
}
