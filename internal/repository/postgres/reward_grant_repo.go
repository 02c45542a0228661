package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

// RewardGrantRepo реализует repository.RewardGrantRepository
type RewardGrantRepo struct {
	db *gorm.DB
}

// NewRewardGrantRepo создает новый репозиторий журнала наград
func NewRewardGrantRepo(db *gorm.DB) *RewardGrantRepo {
	return &RewardGrantRepo{db: db}
}

// Create записывает выдачу награды. Уникальный индекс по participant_id —
// страховка на случай, если флаг reward_claimed и журнал разойдутся.
func (r *RewardGrantRepo) Create(grant *entity.RewardGrant) error {
	if err := r.db.Create(grant).Error; err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateParticipant
		}
		return err
	}
	return nil
}

// GetByParticipant возвращает запись о выдаче награды участнику
func (r *RewardGrantRepo) GetByParticipant(participantID uint) (*entity.RewardGrant, error) {
	var grant entity.RewardGrant
	err := r.db.Where("participant_id = ?", participantID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &grant, nil
}

// MarkCredited помечает запись после успешного вызова леджера
func (r *RewardGrantRepo) MarkCredited(id string) error {
	return r.db.Model(&entity.RewardGrant{}).
		Where("id = ?", id).
		Update("credited", true).
		Error
}
