package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
)

// ============================================================================
// Моки репозиториев движка битвы
// ============================================================================

// MockChallengeRepo реализует repository.ChallengeRepository
type MockChallengeRepo struct {
	mock.Mock
}

func (m *MockChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) TryApplyDamage(challengeID uint, amount int) (*repository.DamageResult, error) {
	args := m.Called(challengeID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DamageResult), args.Error(1)
}

func (m *MockChallengeRepo) MarkExpiredIfDue(challengeID uint, now time.Time) (bool, error) {
	args := m.Called(challengeID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockChallengeRepo) TransitionState(challengeID uint, from, to string) (bool, error) {
	args := m.Called(challengeID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockChallengeRepo) ListDueActive(now time.Time) ([]entity.Challenge, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

// MockParticipantRepo реализует repository.ParticipantRepository
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(p *entity.Participant) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockParticipantRepo) GetByID(id uint) (*entity.Participant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) GetByChallengeAndClient(challengeID, clientID uint) (*entity.Participant, error) {
	args := m.Called(challengeID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) ApplyAnswerStats(participantID uint, damage int) error {
	args := m.Called(participantID, damage)
	return args.Error(0)
}

func (m *MockParticipantRepo) IncrementCorrectCount(participantID uint) error {
	args := m.Called(participantID)
	return args.Error(0)
}

func (m *MockParticipantRepo) MarkRewardClaimed(participantID uint) (bool, error) {
	args := m.Called(participantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepo) ListByChallenge(challengeID uint) ([]entity.Participant, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participant), args.Error(1)
}

// MockAssignedQuestionRepo реализует repository.AssignedQuestionRepository
type MockAssignedQuestionRepo struct {
	mock.Mock
}

func (m *MockAssignedQuestionRepo) GetByID(id uint) (*entity.AssignedQuestion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AssignedQuestion), args.Error(1)
}

func (m *MockAssignedQuestionRepo) ListByParticipant(participantID uint) ([]entity.AssignedQuestion, error) {
	args := m.Called(participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AssignedQuestion), args.Error(1)
}

func (m *MockAssignedQuestionRepo) MarkAnswered(id uint, wasCorrect bool) (bool, error) {
	args := m.Called(id, wasCorrect)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignedQuestionRepo) SetResultHP(id uint, hpAfter int) error {
	args := m.Called(id, hpAfter)
	return args.Error(0)
}

// MockQuestionBankRepo реализует repository.QuestionBankRepository
type MockQuestionBankRepo struct {
	mock.Mock
}

func (m *MockQuestionBankRepo) GetCorrectOption(questionID uint) (int, error) {
	args := m.Called(questionID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionBankRepo) GetByIDs(ids []uint) ([]entity.Question, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

// MockRewardGrantRepo реализует repository.RewardGrantRepository
type MockRewardGrantRepo struct {
	mock.Mock
}

func (m *MockRewardGrantRepo) Create(grant *entity.RewardGrant) error {
	args := m.Called(grant)
	return args.Error(0)
}

func (m *MockRewardGrantRepo) GetByParticipant(participantID uint) (*entity.RewardGrant, error) {
	args := m.Called(participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RewardGrant), args.Error(1)
}

func (m *MockRewardGrantRepo) MarkCredited(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// MockNotifier реализует BattleNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BroadcastEvent(eventType string, data interface{}) error {
	args := m.Called(eventType, data)
	return args.Error(0)
}

// MockLedger реализует gamification.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Credit(ctx context.Context, clientID uint, xp, coins int, idempotencyKey string) error {
	args := m.Called(ctx, clientID, xp, coins, idempotencyKey)
	return args.Error(0)
}
