package repository

import (
	"errors"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
)

// ErrDuplicateParticipant возвращается Create, когда пара (challenge_id, client_id)
// уже существует (unique violation 23505). Проигравший гонку перечитывает строку победителя.
var ErrDuplicateParticipant = errors.New("participant already exists for this challenge and client")

// ParticipantRepository определяет методы для работы с участниками битвы
type ParticipantRepository interface {
	Create(p *entity.Participant) error
	GetByID(id uint) (*entity.Participant, error)
	GetByChallengeAndClient(challengeID, clientID uint) (*entity.Participant, error)

	// ApplyAnswerStats атомарно инкрементирует счетчики после правильного ответа.
	// damage добавляется к damage_dealt_total без оглядки на кламп HP у босса.
	ApplyAnswerStats(participantID uint, damage int) error

	// IncrementCorrectCount инкрементирует только correct_count — для правильных
	// ответов, пришедших после завершения челленджа (урон уже не применяется).
	IncrementCorrectCount(participantID uint) error

	// MarkRewardClaimed выставляет reward_claimed = true, только если флаг еще false.
	// Возвращает true, если флаг перевернул именно этот вызов (единственный грантор).
	MarkRewardClaimed(participantID uint) (bool, error)

	// ListByChallenge возвращает участников челленджа, отсортированных по нанесенному урону
	ListByChallenge(challengeID uint) ([]entity.Participant, error)
}
