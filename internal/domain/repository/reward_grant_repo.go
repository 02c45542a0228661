package repository

import (
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
)

// RewardGrantRepository определяет методы журнала выдачи наград
type RewardGrantRepository interface {
	Create(grant *entity.RewardGrant) error
	GetByParticipant(participantID uint) (*entity.RewardGrant, error)

	// MarkCredited помечает запись после успешного вызова леджера.
	// Непомеченные записи подбирает внешняя сверка.
	MarkCredited(id string) error
}
