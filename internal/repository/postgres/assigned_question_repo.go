package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

// AssignedQuestionRepo реализует repository.AssignedQuestionRepository
type AssignedQuestionRepo struct {
	db *gorm.DB
}

// NewAssignedQuestionRepo создает новый репозиторий назначенных вопросов
func NewAssignedQuestionRepo(db *gorm.DB) *AssignedQuestionRepo {
	return &AssignedQuestionRepo{db: db}
}

// GetByID возвращает назначенный вопрос по ID
func (r *AssignedQuestionRepo) GetByID(id uint) (*entity.AssignedQuestion, error) {
	var aq entity.AssignedQuestion
	err := r.db.First(&aq, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &aq, nil
}

// ListByParticipant возвращает все назначенные участнику вопросы
func (r *AssignedQuestionRepo) ListByParticipant(participantID uint) ([]entity.AssignedQuestion, error) {
	var questions []entity.AssignedQuestion
	err := r.db.Where("participant_id = ?", participantID).
		Order("id").
		Find(&questions).Error
	return questions, err
}

// MarkAnswered атомарно помечает вопрос отвеченным (write-once).
// Условие answered = false в WHERE гарантирует: при одновременной отправке
// двух ответов на один вопрос запись обновит ровно один из них,
// второй получит false и вернет ранее сохраненный исход.
func (r *AssignedQuestionRepo) MarkAnswered(id uint, wasCorrect bool) (bool, error) {
	result := r.db.Model(&entity.AssignedQuestion{}).
		Where("id = ? AND answered = false", id).
		Updates(map[string]interface{}{
			"answered":    true,
			"was_correct": wasCorrect,
		})

	if result.Error != nil {
		return false, fmt.Errorf("mark assigned question #%d answered failed: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetResultHP дописывает hp_after к отвеченному вопросу
func (r *AssignedQuestionRepo) SetResultHP(id uint, hpAfter int) error {
	return r.db.Model(&entity.AssignedQuestion{}).
		Where("id = ? AND answered = true", id).
		Update("hp_after", hpAfter).
		Error
}
