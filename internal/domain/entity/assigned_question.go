package entity

import (
	"time"
)

// AssignedQuestion представляет вопрос, закрепленный за участником с фиксированной
// ценой урона. Создается внешним назначателем вопросов; поля Answered/WasCorrect
// выставляются ровно один раз атомарным условным UPDATE.
type AssignedQuestion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ParticipantID uint      `gorm:"not null;index" json:"participant_id"`
	QuestionID    uint      `gorm:"not null;index" json:"question_id"`
	Points        int       `gorm:"not null" json:"points"`
	Answered      bool      `gorm:"not null;default:false" json:"answered"`
	WasCorrect    bool      `gorm:"not null;default:false" json:"was_correct"`
	// HPAfter хранит hp_remaining босса сразу после применения урона за этот ответ.
	// Нужен, чтобы повторная отправка того же ответа вернула идентичный результат.
	// NULL, пока вопрос не отвечен (или если урон не применялся).
	HPAfter   *int      `gorm:"column:hp_after" json:"hp_after,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AssignedQuestion) TableName() string {
	return "assigned_questions"
}

// BelongsTo проверяет, принадлежит ли назначенный вопрос данному участнику
func (aq *AssignedQuestion) BelongsTo(participantID uint) bool {
	return aq.ParticipantID == participantID
}
