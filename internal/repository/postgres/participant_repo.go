package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create создает участника. При нарушении уникальности (challenge_id, client_id)
// возвращает repository.ErrDuplicateParticipant — вызывающая сторона перечитывает
// строку победителя гонки вместо ошибки.
func (r *ParticipantRepo) Create(p *entity.Participant) error {
	if err := r.db.Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: challenge #%d, client #%d", repository.ErrDuplicateParticipant, p.ChallengeID, p.ClientID)
		}
		return err
	}
	return nil
}

// GetByID возвращает участника по ID
func (r *ParticipantRepo) GetByID(id uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.First(&participant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// GetByChallengeAndClient возвращает участника по паре (challenge_id, client_id)
func (r *ParticipantRepo) GetByChallengeAndClient(challengeID, clientID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.Where("challenge_id = ? AND client_id = ?", challengeID, clientID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// ApplyAnswerStats атомарно инкрементирует счетчики участника через gorm.Expr.
// damage добавляется полностью, даже если у босса оставалось меньше HP —
// статистика участника отражает нанесенный, а не засчитанный боссу урон.
func (r *ParticipantRepo) ApplyAnswerStats(participantID uint, damage int) error {
	return r.db.Model(&entity.Participant{}).
		Where("id = ?", participantID).
		Updates(map[string]interface{}{
			"damage_dealt_total": gorm.Expr("damage_dealt_total + ?", damage),
			"correct_count":      gorm.Expr("correct_count + 1"),
		}).Error
}

// IncrementCorrectCount инкрементирует только correct_count
func (r *ParticipantRepo) IncrementCorrectCount(participantID uint) error {
	return r.db.Model(&entity.Participant{}).
		Where("id = ?", participantID).
		Update("correct_count", gorm.Expr("correct_count + 1")).
		Error
}

// MarkRewardClaimed атомарно переводит reward_claimed false → true.
// RowsAffected == 1 означает, что флаг перевернул именно этот вызов —
// он и только он становится грантором награды.
func (r *ParticipantRepo) MarkRewardClaimed(participantID uint) (bool, error) {
	result := r.db.Model(&entity.Participant{}).
		Where("id = ? AND reward_claimed = false", participantID).
		Update("reward_claimed", true)

	if result.Error != nil {
		return false, fmt.Errorf("mark reward claimed for participant #%d failed: %w", participantID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByChallenge возвращает участников челленджа по убыванию нанесенного урона
func (r *ParticipantRepo) ListByChallenge(challengeID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("damage_dealt_total DESC, correct_count DESC").
		Find(&participants).Error
	return participants, err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
