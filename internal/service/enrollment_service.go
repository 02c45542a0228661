package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

// EnrollmentService отвечает за запись клиентов в босс-челлендж.
// Enroll идемпотентен: повторный вызов для той же пары (challenge, client)
// возвращает существующую запись, не сбрасывая счетчики.
type EnrollmentService struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
}

// NewEnrollmentService создает новый сервис записи участников
func NewEnrollmentService(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ParticipantRepository,
) *EnrollmentService {
	return &EnrollmentService{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
	}
}

// Enroll записывает клиента в челлендж. Гонку одновременных записей разрешает
// уникальный индекс (challenge_id, client_id): проигравший получает
// ErrDuplicateParticipant от репозитория и перечитывает строку победителя.
func (s *EnrollmentService) Enroll(challengeID, clientID uint) (*entity.Participant, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, err
	}

	// Новые записи принимаются только в активную битву
	if !challenge.IsActive() {
		return nil, fmt.Errorf("%w: challenge #%d is %s", ErrChallengeNotJoinable, challengeID, challenge.State)
	}

	// Быстрый путь: участник уже существует
	existing, err := s.participantRepo.GetByChallengeAndClient(challengeID, clientID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	participant := &entity.Participant{
		ChallengeID: challengeID,
		ClientID:    clientID,
	}
	if err := s.participantRepo.Create(participant); err != nil {
		if errors.Is(err, repository.ErrDuplicateParticipant) {
			// Проиграли гонку одновременной записи — возвращаем строку победителя
			log.Printf("[Enrollment] Клиент #%d проиграл гонку записи в челлендж #%d, перечитываем участника", clientID, challengeID)
			return s.participantRepo.GetByChallengeAndClient(challengeID, clientID)
		}
		return nil, err
	}

	log.Printf("[Enrollment] Клиент #%d записан в челлендж #%d (участник #%d)", clientID, challengeID, participant.ID)
	return participant, nil
}

// GetParticipant возвращает участника по ID (для проверки владения на уровне маршрутов)
func (s *EnrollmentService) GetParticipant(participantID uint) (*entity.Participant, error) {
	return s.participantRepo.GetByID(participantID)
}
