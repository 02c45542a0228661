package repository

import (
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
)

// QuestionBankRepository — read-only доступ к банку вопросов платформы.
// Правильность ответа всегда вычисляется по банку на сервере;
// клиентскому флагу корректности доверять нельзя.
type QuestionBankRepository interface {
	// GetCorrectOption возвращает индекс правильного варианта для вопроса
	GetCorrectOption(questionID uint) (int, error)

	// GetByIDs возвращает вопросы по списку идентификаторов (для выдачи
	// текстов и вариантов участнику; correct_option наружу не отдается)
	GetByIDs(ids []uint) ([]entity.Question, error)
}
