package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	"github.com/yourusername/bossbattle-api/internal/gamification"
)

// ClaimResult — результат попытки забрать награду.
// Granted == false при повторном обращении — это не ошибка, суммы
// возвращаются для отображения, начисление не повторяется.
type ClaimResult struct {
	Granted bool `json:"granted"`
	XP      int  `json:"xp"`
	Coins   int  `json:"coins"`
}

// RewardService выдает награду участнику ровно один раз после завершения
// челленджа. Единственность грантора обеспечивает условный UPDATE флага
// reward_claimed; идемпотентность начисления — ключ в журнале reward_grants.
type RewardService struct {
	participantRepo repository.ParticipantRepository
	challengeRepo   repository.ChallengeRepository
	grantRepo       repository.RewardGrantRepository
	ledger          gamification.Ledger
	creditRetries   int
}

// NewRewardService создает новый сервис наград
func NewRewardService(
	participantRepo repository.ParticipantRepository,
	challengeRepo repository.ChallengeRepository,
	grantRepo repository.RewardGrantRepository,
	ledger gamification.Ledger,
	creditRetries int,
) *RewardService {
	if creditRetries <= 0 {
		creditRetries = 3
	}
	return &RewardService{
		participantRepo: participantRepo,
		challengeRepo:   challengeRepo,
		grantRepo:       grantRepo,
		ledger:          ledger,
		creditRetries:   creditRetries,
	}
}

// Claim выдает награду участнику. При N одновременных вызовах ровно один
// получает Granted == true и ровно один раз дергает леджер.
func (s *RewardService) Claim(ctx context.Context, participantID uint) (*ClaimResult, error) {
	participant, err := s.participantRepo.GetByID(participantID)
	if err != nil {
		return nil, err
	}

	challenge, err := s.challengeRepo.GetByID(participant.ChallengeID)
	if err != nil {
		return nil, err
	}

	// Награда доступна только после терминального перехода (defeated или expired)
	if !challenge.IsTerminal() {
		return nil, fmt.Errorf("%w: challenge #%d is %s", ErrChallengeNotFinished, challenge.ID, challenge.State)
	}

	granted, err := s.participantRepo.MarkRewardClaimed(participantID)
	if err != nil {
		return nil, err
	}
	if !granted {
		// Флаг уже перевернут (этим же клиентом ранее или конкурентным запросом) —
		// идемпотентный повтор, суммы возвращаем только для отображения
		return &ClaimResult{Granted: false, XP: challenge.RewardXP, Coins: challenge.RewardCoins}, nil
	}

	grant := &entity.RewardGrant{
		ID:            uuid.NewString(),
		ParticipantID: participant.ID,
		ChallengeID:   challenge.ID,
		ClientID:      participant.ClientID,
		XP:            challenge.RewardXP,
		Coins:         challenge.RewardCoins,
	}
	if err := s.grantRepo.Create(grant); err != nil {
		if errors.Is(err, repository.ErrDuplicateParticipant) {
			// Журнал уже содержит запись (флаг и журнал разошлись после сбоя) —
			// переиспользуем ее ключ идемпотентности
			existing, lookupErr := s.grantRepo.GetByParticipant(participant.ID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			grant = existing
		} else {
			log.Printf("[RewardClaim] CRITICAL: не удалось записать выдачу награды участнику #%d: %v", participantID, err)
		}
	}

	s.creditWithRetry(ctx, grant)

	log.Printf("[RewardClaim] Награда выдана участнику #%d (челлендж #%d): %d XP, %d монет",
		participant.ID, challenge.ID, challenge.RewardXP, challenge.RewardCoins)
	return &ClaimResult{Granted: true, XP: challenge.RewardXP, Coins: challenge.RewardCoins}, nil
}

// creditWithRetry вызывает леджер с ограниченными ретраями. Ключ идемпотентности —
// ID журнальной записи, поэтому повтор после частичного сбоя безопасен.
// Исчерпание ретраев не отменяет выдачу: непроведенные начисления подбирает
// сверка по reward_grants с credited = false.
func (s *RewardService) creditWithRetry(ctx context.Context, grant *entity.RewardGrant) {
	var lastErr error
	for attempt := 1; attempt <= s.creditRetries; attempt++ {
		lastErr = s.ledger.Credit(ctx, grant.ClientID, grant.XP, grant.Coins, grant.ID)
		if lastErr == nil {
			if err := s.grantRepo.MarkCredited(grant.ID); err != nil {
				log.Printf("[RewardClaim] Ошибка пометки credited для гранта %s: %v", grant.ID, err)
			}
			return
		}
		log.Printf("[RewardClaim] Попытка %d/%d начисления по гранту %s не удалась: %v",
			attempt, s.creditRetries, grant.ID, lastErr)
		if attempt < s.creditRetries {
			time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
		}
	}
	log.Printf("[RewardClaim] CRITICAL: начисление по гранту %s не проведено после %d попыток: %v",
		grant.ID, s.creditRetries, lastErr)
}
