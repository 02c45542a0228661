package repository

import (
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
)

// AssignedQuestionRepository определяет методы для работы с назначенными вопросами.
// Сами назначения создает внешний компонент; движок только читает их и
// один раз помечает отвеченными.
type AssignedQuestionRepository interface {
	GetByID(id uint) (*entity.AssignedQuestion, error)
	ListByParticipant(participantID uint) ([]entity.AssignedQuestion, error)

	// MarkAnswered выставляет answered = true и was_correct = wasCorrect, только
	// если answered еще false. Возвращает true, если запись обновил этот вызов;
	// false — проигравший гонку перечитывает запись и возвращает сохраненный исход.
	MarkAnswered(id uint, wasCorrect bool) (bool, error)

	// SetResultHP дописывает hp_after к уже отвеченному вопросу, чтобы повторная
	// отправка вернула идентичный {correct, newHp}.
	SetResultHP(id uint, hpAfter int) error
}
