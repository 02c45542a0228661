package service

import (
	"context"
	"log"
	"time"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	ws "github.com/yourusername/bossbattle-api/internal/websocket"
)

// ExpiryService периодически закрывает активные челленджи с истекшим дедлайном.
// Переход active → expired выполняется тем же условным UPDATE, что и defeat,
// поэтому челлендж не может оказаться одновременно defeated и expired.
type ExpiryService struct {
	challengeRepo repository.ChallengeRepository
	cacheRepo     repository.CacheRepository
	notifier      BattleNotifier
	interval      time.Duration
}

// NewExpiryService создает новый сервис закрытия просроченных челленджей
func NewExpiryService(
	challengeRepo repository.ChallengeRepository,
	cacheRepo repository.CacheRepository,
	notifier BattleNotifier,
	interval time.Duration,
) *ExpiryService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ExpiryService{
		challengeRepo: challengeRepo,
		cacheRepo:     cacheRepo,
		notifier:      notifier,
		interval:      interval,
	}
}

// Run запускает периодический обход; завершается по отмене контекста
func (s *ExpiryService) Run(ctx context.Context) {
	log.Printf("[ExpiryScheduler] Запуск, интервал обхода %v", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepExpired(time.Now()); err != nil {
				log.Printf("[ExpiryScheduler] Ошибка обхода: %v", err)
			}
		case <-ctx.Done():
			log.Println("[ExpiryScheduler] Остановка")
			return
		}
	}
}

// SweepExpired закрывает все активные челленджи с ends_at <= now.
// Возвращает количество челленджей, переведенных в expired ЭТИМ обходом:
// проигравшие гонку (конкурентный обход или defeat) не учитываются.
func (s *ExpiryService) SweepExpired(now time.Time) (int, error) {
	due, err := s.challengeRepo.ListDueActive(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, challenge := range due {
		transitioned, err := s.challengeRepo.MarkExpiredIfDue(challenge.ID, now)
		if err != nil {
			log.Printf("[ExpiryScheduler] Ошибка закрытия челленджа #%d: %v", challenge.ID, err)
			continue
		}
		if !transitioned {
			// Между выборкой и UPDATE челлендж успел стать defeated или expired
			continue
		}

		expired++
		s.onExpired(challenge.ID)
	}

	if expired > 0 {
		log.Printf("[ExpiryScheduler] Закрыто челленджей: %d", expired)
	}
	return expired, nil
}

// onExpired сбрасывает кеш статуса и рассылает событие о завершении по таймеру
func (s *ExpiryService) onExpired(challengeID uint) {
	if err := s.cacheRepo.Delete(statusCacheKey(challengeID)); err != nil {
		log.Printf("[ExpiryScheduler] Ошибка сброса кеша статуса челленджа #%d: %v", challengeID, err)
	}

	event := map[string]interface{}{
		"challenge_id": challengeID,
		"state":        entity.ChallengeStateExpired,
	}
	if err := s.notifier.BroadcastEvent(ws.EventBattleExpired, event); err != nil {
		log.Printf("[ExpiryScheduler] Ошибка рассылки события expired для челленджа #%d: %v", challengeID, err)
	}
}
