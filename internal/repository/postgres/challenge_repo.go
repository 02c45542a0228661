package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

// ChallengeRepo реализует repository.ChallengeRepository
type ChallengeRepo struct {
	db *gorm.DB
}

// NewChallengeRepo создает новый репозиторий босс-челленджей
func NewChallengeRepo(db *gorm.DB) *ChallengeRepo {
	return &ChallengeRepo{db: db}
}

// GetByID возвращает челлендж по ID
func (r *ChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	var challenge entity.Challenge
	err := r.db.First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// damageRow — строка, возвращаемая RETURNING из tryApplyDamage
type damageRow struct {
	HPRemaining int    `gorm:"column:hp_remaining"`
	State       string `gorm:"column:state"`
}

// TryApplyDamage атомарно уменьшает hp_remaining с клампом в 0 и, если HP
// достигло нуля, в том же UPDATE переводит челлендж в defeated.
// Условие state = 'active' в WHERE гарантирует, что при гонке нескольких
// запросов через ноль переход выполнит ровно один из них: Postgres
// сериализует UPDATE одной строки, и после первого перехода остальные
// увидят state != active и не обновят ни одной строки.
func (r *ChallengeRepo) TryApplyDamage(challengeID uint, amount int) (*repository.DamageResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: damage amount must be positive", apperrors.ErrValidation)
	}

	sql := `
	UPDATE challenges
	SET hp_remaining = GREATEST(hp_remaining - ?, 0),
	    state = CASE WHEN hp_remaining <= ? THEN ? ELSE state END,
	    updated_at = NOW()
	WHERE id = ? AND state = ?
	RETURNING hp_remaining, state`

	var row damageRow
	result := r.db.Raw(sql, amount, amount, entity.ChallengeStateDefeated, challengeID, entity.ChallengeStateActive).Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("apply damage to challenge #%d failed: %w", challengeID, result.Error)
	}

	if result.RowsAffected == 0 {
		// Челлендж не active (истек, уже повержен или еще не начался) — урон
		// молча не применяется, возвращаем текущее HP.
		challenge, err := r.GetByID(challengeID)
		if err != nil {
			return nil, err
		}
		return &repository.DamageResult{
			NewHP:        challenge.HPRemaining,
			JustDefeated: false,
			Applied:      false,
		}, nil
	}

	return &repository.DamageResult{
		NewHP: row.HPRemaining,
		// Состояние могло смениться только нашим UPDATE (WHERE требовал active),
		// поэтому defeated здесь означает, что переход выполнил именно этот вызов.
		JustDefeated: row.State == entity.ChallengeStateDefeated,
		Applied:      true,
	}, nil
}

// MarkExpiredIfDue переводит active → expired, только если дедлайн прошел.
// Тот же условный UPDATE, что и в TryApplyDamage: челлендж не может оказаться
// одновременно defeated и expired, а переход происходит не более одного раза.
func (r *ChallengeRepo) MarkExpiredIfDue(challengeID uint, now time.Time) (bool, error) {
	result := r.db.Model(&entity.Challenge{}).
		Where("id = ? AND state = ? AND ends_at <= ?", challengeID, entity.ChallengeStateActive, now).
		Update("state", entity.ChallengeStateExpired)

	if result.Error != nil {
		return false, fmt.Errorf("expire challenge #%d failed: %w", challengeID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// TransitionState переводит from → to одним условным UPDATE.
// RowsAffected == 0 означает, что челлендж был не в состоянии from.
func (r *ChallengeRepo) TransitionState(challengeID uint, from, to string) (bool, error) {
	result := r.db.Model(&entity.Challenge{}).
		Where("id = ? AND state = ?", challengeID, from).
		Update("state", to)

	if result.Error != nil {
		return false, fmt.Errorf("transition challenge #%d %s -> %s failed: %w", challengeID, from, to, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListDueActive возвращает активные челленджи с истекшим ends_at
func (r *ChallengeRepo) ListDueActive(now time.Time) ([]entity.Challenge, error) {
	var challenges []entity.Challenge
	err := r.db.Where("state = ? AND ends_at <= ?", entity.ChallengeStateActive, now).
		Order("ends_at").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}
