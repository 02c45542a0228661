package entity

import (
	"time"

	"github.com/lib/pq"
)

// Question представляет вопрос банка вопросов платформы.
// Банк наполняется внешним контент-воркфлоу; движок битвы только читает его,
// чтобы проверить правильность ответа на сервере.
type Question struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Text          string         `gorm:"size:500;not null" json:"text"`
	Options       pq.StringArray `gorm:"type:text[];not null" json:"options"`
	CorrectOption int            `gorm:"not null" json:"-"` // Скрыто от клиента
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOption
}

// IsValidOption проверяет, является ли выбранный вариант допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}
