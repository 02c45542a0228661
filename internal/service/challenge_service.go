package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
	ws "github.com/yourusername/bossbattle-api/internal/websocket"
)

// ChallengeStatus — публичный статус битвы, отдаваемый UI
type ChallengeStatus struct {
	ChallengeID uint   `json:"challenge_id"`
	HPTotal     int    `json:"hp_total"`
	HPRemaining int    `json:"hp_remaining"`
	State       string `json:"state"`
}

// ChallengeService обслуживает чтение статуса битвы и административные
// переходы состояний (activate/close). Сами челленджи создает внешний
// админ-воркфлоу.
type ChallengeService struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
	cacheRepo       repository.CacheRepository
	notifier        BattleNotifier
	statusTTL       time.Duration
}

// NewChallengeService создает новый сервис челленджей
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ParticipantRepository,
	cacheRepo repository.CacheRepository,
	notifier BattleNotifier,
	statusTTL time.Duration,
) *ChallengeService {
	if statusTTL <= 0 {
		statusTTL = 2 * time.Second
	}
	return &ChallengeService{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		cacheRepo:       cacheRepo,
		notifier:        notifier,
		statusTTL:       statusTTL,
	}
}

// statusCacheKey — ключ короткоживущего кеша статуса челленджа
func statusCacheKey(challengeID uint) string {
	return fmt.Sprintf("battle:challenge:%d:status", challengeID)
}

// GetStatus возвращает статус битвы. HP опрашивается часто, поэтому ответ
// кешируется с коротким TTL; промах кеша дополнительно выполняет ленивую
// проверку дедлайна, чтобы просроченный челлендж закрылся и без обхода планировщика.
func (s *ChallengeService) GetStatus(challengeID uint) (*ChallengeStatus, error) {
	var cached ChallengeStatus
	if err := s.cacheRepo.GetJSON(statusCacheKey(challengeID), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[ChallengeService] Ошибка чтения кеша статуса челленджа #%d: %v", challengeID, err)
	}

	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, err
	}

	// Ленивое закрытие: дедлайн прошел, а планировщик еще не добрался
	if challenge.IsActive() && challenge.IsDue(time.Now()) {
		transitioned, err := s.challengeRepo.MarkExpiredIfDue(challengeID, time.Now())
		if err != nil {
			log.Printf("[ChallengeService] Ошибка ленивого закрытия челленджа #%d: %v", challengeID, err)
		} else if transitioned {
			challenge.State = entity.ChallengeStateExpired
			event := map[string]interface{}{
				"challenge_id": challengeID,
				"state":        entity.ChallengeStateExpired,
			}
			if err := s.notifier.BroadcastEvent(ws.EventBattleExpired, event); err != nil {
				log.Printf("[ChallengeService] Ошибка рассылки события expired для челленджа #%d: %v", challengeID, err)
			}
		} else {
			// Переход выполнил кто-то другой — перечитываем фактическое состояние
			if reread, rereadErr := s.challengeRepo.GetByID(challengeID); rereadErr == nil {
				challenge = reread
			}
		}
	}

	status := &ChallengeStatus{
		ChallengeID: challenge.ID,
		HPTotal:     challenge.HPTotal,
		HPRemaining: challenge.HPRemaining,
		State:       challenge.State,
	}
	if err := s.cacheRepo.SetJSON(statusCacheKey(challengeID), status, s.statusTTL); err != nil {
		log.Printf("[ChallengeService] Ошибка записи кеша статуса челленджа #%d: %v", challengeID, err)
	}
	return status, nil
}

// Activate переводит челлендж scheduled → active и открывает битву
func (s *ChallengeService) Activate(challengeID uint) error {
	transitioned, err := s.challengeRepo.TransitionState(challengeID, entity.ChallengeStateScheduled, entity.ChallengeStateActive)
	if err != nil {
		return err
	}
	if !transitioned {
		return fmt.Errorf("%w: challenge #%d is not scheduled", apperrors.ErrConflict, challengeID)
	}

	log.Printf("[ChallengeService] Челлендж #%d активирован", challengeID)
	event := map[string]interface{}{
		"challenge_id": challengeID,
		"state":        entity.ChallengeStateActive,
	}
	if err := s.notifier.BroadcastEvent(ws.EventBattleStarted, event); err != nil {
		log.Printf("[ChallengeService] Ошибка рассылки события started для челленджа #%d: %v", challengeID, err)
	}
	return nil
}

// Close переводит челлендж active → closing (административная пауза перед
// терминальным состоянием; урон и новые записи больше не принимаются)
func (s *ChallengeService) Close(challengeID uint) error {
	transitioned, err := s.challengeRepo.TransitionState(challengeID, entity.ChallengeStateActive, entity.ChallengeStateClosing)
	if err != nil {
		return err
	}
	if !transitioned {
		return fmt.Errorf("%w: challenge #%d is not active", apperrors.ErrConflict, challengeID)
	}

	if err := s.cacheRepo.Delete(statusCacheKey(challengeID)); err != nil {
		log.Printf("[ChallengeService] Ошибка сброса кеша статуса челленджа #%d: %v", challengeID, err)
	}
	log.Printf("[ChallengeService] Челлендж #%d переведен в closing", challengeID)
	return nil
}

// ListParticipants возвращает доску участников по убыванию нанесенного урона
func (s *ChallengeService) ListParticipants(challengeID uint) ([]entity.Participant, error) {
	if _, err := s.challengeRepo.GetByID(challengeID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByChallenge(challengeID)
}
