package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

// QuestionBankRepo реализует repository.QuestionBankRepository.
// Банк вопросов принадлежит контент-воркфлоу платформы; движок битвы его не мутирует.
type QuestionBankRepo struct {
	db *gorm.DB
}

// NewQuestionBankRepo создает новый read-only репозиторий банка вопросов
func NewQuestionBankRepo(db *gorm.DB) *QuestionBankRepo {
	return &QuestionBankRepo{db: db}
}

// GetCorrectOption возвращает индекс правильного варианта для вопроса
func (r *QuestionBankRepo) GetCorrectOption(questionID uint) (int, error) {
	var question entity.Question
	err := r.db.Select("id", "correct_option").First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}
	return question.CorrectOption, nil
}

// GetByIDs возвращает вопросы по списку идентификаторов
func (r *QuestionBankRepo) GetByIDs(ids []uint) ([]entity.Question, error) {
	if len(ids) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}
