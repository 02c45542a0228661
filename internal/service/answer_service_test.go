package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
	ws "github.com/yourusername/bossbattle-api/internal/websocket"
)

func newAnswerServiceForTest() (*AnswerService, *MockAssignedQuestionRepo, *MockParticipantRepo, *MockChallengeRepo, *MockQuestionBankRepo, *MockCacheRepo, *MockNotifier) {
	assignedRepo := new(MockAssignedQuestionRepo)
	participantRepo := new(MockParticipantRepo)
	challengeRepo := new(MockChallengeRepo)
	questionBank := new(MockQuestionBankRepo)
	cacheRepo := new(MockCacheRepo)
	notifier := new(MockNotifier)
	svc := NewAnswerService(assignedRepo, participantRepo, challengeRepo, questionBank, cacheRepo, notifier)
	return svc, assignedRepo, participantRepo, challengeRepo, questionBank, cacheRepo, notifier
}

func TestAnswerService_Resolve_CorrectAnswer(t *testing.T) {
	// Arrange
	svc, assignedRepo, participantRepo, challengeRepo, questionBank, cacheRepo, notifier := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 25,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1, ClientID: 42}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(2, nil)
	assignedRepo.On("MarkAnswered", uint(10), true).Return(true, nil)
	challengeRepo.On("TryApplyDamage", uint(1), 25).Return(&repository.DamageResult{
		NewHP: 75, JustDefeated: false, Applied: true,
	}, nil)
	participantRepo.On("ApplyAnswerStats", uint(5), 25).Return(nil)
	assignedRepo.On("SetResultHP", uint(10), 75).Return(nil)
	cacheRepo.On("Delete", "battle:challenge:1:status").Return(nil)
	notifier.On("BroadcastEvent", ws.EventBattleHPUpdate, mock.Anything).Return(nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 2)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.Correct, "Ответ должен быть засчитан как правильный")
	assert.Equal(t, 75, outcome.NewHP, "HP должно уменьшиться на цену вопроса")
	assert.False(t, outcome.JustDefeated, "Босс еще жив")
	assert.False(t, outcome.AlreadyResolved)
	assignedRepo.AssertExpectations(t)
	participantRepo.AssertExpectations(t)
	challengeRepo.AssertExpectations(t)
}

func TestAnswerService_Resolve_IncorrectAnswer(t *testing.T) {
	// Arrange
	svc, assignedRepo, participantRepo, challengeRepo, questionBank, _, notifier := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 25,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(2, nil)
	assignedRepo.On("MarkAnswered", uint(10), false).Return(true, nil)
	challengeRepo.On("GetByID", uint(1)).Return(&entity.Challenge{
		ID: 1, HPTotal: 100, HPRemaining: 100, State: entity.ChallengeStateActive,
	}, nil)
	assignedRepo.On("SetResultHP", uint(10), 100).Return(nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 0)

	// Assert
	assert.NoError(t, err)
	assert.False(t, outcome.Correct, "Ответ неправильный")
	assert.Equal(t, 100, outcome.NewHP, "HP не должно измениться от неправильного ответа")
	// Урон не применялся и события не рассылались
	challengeRepo.AssertNotCalled(t, "TryApplyDamage", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "BroadcastEvent", mock.Anything, mock.Anything)
	assignedRepo.AssertExpectations(t)
}

func TestAnswerService_Resolve_JustDefeated(t *testing.T) {
	// Arrange: урон добивает босса — ровно этот вызов получает JustDefeated
	svc, assignedRepo, participantRepo, challengeRepo, questionBank, cacheRepo, notifier := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 60,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(1, nil)
	assignedRepo.On("MarkAnswered", uint(10), true).Return(true, nil)
	challengeRepo.On("TryApplyDamage", uint(1), 60).Return(&repository.DamageResult{
		NewHP: 0, JustDefeated: true, Applied: true,
	}, nil)
	participantRepo.On("ApplyAnswerStats", uint(5), 60).Return(nil)
	assignedRepo.On("SetResultHP", uint(10), 0).Return(nil)
	cacheRepo.On("Delete", "battle:challenge:1:status").Return(nil)
	cacheRepo.On("SetNX", "battle:challenge:1:defeat_announced", "1", mock.Anything).Return(true, nil)
	notifier.On("BroadcastEvent", ws.EventBattleHPUpdate, mock.Anything).Return(nil)
	notifier.On("BroadcastEvent", ws.EventBattleDefeated, mock.Anything).Return(nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 1)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.JustDefeated, "Добивший удар должен получить JustDefeated")
	assert.Equal(t, 0, outcome.NewHP)
	notifier.AssertCalled(t, "BroadcastEvent", ws.EventBattleDefeated, mock.Anything)
	cacheRepo.AssertExpectations(t)
}

func TestAnswerService_Resolve_ReplayReturnsStoredOutcome(t *testing.T) {
	// Arrange: вопрос уже отвечен, повтор возвращает сохраненный исход без мутаций
	svc, assignedRepo, participantRepo, challengeRepo, _, _, _ := newAnswerServiceForTest()

	hpAfter := 40
	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 25,
		Answered: true, WasCorrect: true, HPAfter: &hpAfter,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 2)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.AlreadyResolved, "Повтор должен быть помечен как AlreadyResolved")
	assert.True(t, outcome.Correct)
	assert.Equal(t, 40, outcome.NewHP, "Повтор должен вернуть HP, зафиксированное при первом разрешении")
	assert.False(t, outcome.JustDefeated, "Повтор никогда не возвращает JustDefeated")
	challengeRepo.AssertNotCalled(t, "TryApplyDamage", mock.Anything, mock.Anything)
	assignedRepo.AssertNotCalled(t, "MarkAnswered", mock.Anything, mock.Anything)
}

func TestAnswerService_Resolve_RaceLoserFallsBackToReplay(t *testing.T) {
	// Arrange: два запроса на один вопрос; проигравший MarkAnswered перечитывает запись
	svc, assignedRepo, participantRepo, challengeRepo, questionBank, _, _ := newAnswerServiceForTest()

	hpAfter := 80
	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 20,
	}, nil).Once()
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(0, nil)
	assignedRepo.On("MarkAnswered", uint(10), true).Return(false, nil)
	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 20,
		Answered: true, WasCorrect: true, HPAfter: &hpAfter,
	}, nil).Once()

	// Act
	outcome, err := svc.Resolve(5, 10, 0)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.AlreadyResolved, "Проигравший гонку получает сохраненный исход")
	assert.Equal(t, 80, outcome.NewHP)
	challengeRepo.AssertNotCalled(t, "TryApplyDamage", mock.Anything, mock.Anything)
}

func TestAnswerService_Resolve_NotAssigned(t *testing.T) {
	// Arrange: вопрос принадлежит другому участнику
	svc, assignedRepo, _, _, _, _, _ := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 999, QuestionID: 77,
	}, nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 0)

	// Assert
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, ErrNotAssigned, "Чужой вопрос должен давать ErrNotAssigned")
}

func TestAnswerService_Resolve_UnknownQuestionLooksLikeNotAssigned(t *testing.T) {
	// Arrange: несуществующий вопрос неотличим от чужого
	svc, assignedRepo, _, _, _, _, _ := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(nil, apperrors.ErrNotFound)

	// Act
	_, err := svc.Resolve(5, 10, 0)

	// Assert
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestAnswerService_Resolve_CorrectAfterChallengeEnded(t *testing.T) {
	// Arrange: челлендж уже не активен — урон не применяется,
	// но correct_count участника все равно растет
	svc, assignedRepo, participantRepo, challengeRepo, questionBank, cacheRepo, notifier := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 25,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(2, nil)
	assignedRepo.On("MarkAnswered", uint(10), true).Return(true, nil)
	challengeRepo.On("TryApplyDamage", uint(1), 25).Return(&repository.DamageResult{
		NewHP: 30, JustDefeated: false, Applied: false,
	}, nil)
	participantRepo.On("IncrementCorrectCount", uint(5)).Return(nil)
	assignedRepo.On("SetResultHP", uint(10), 30).Return(nil)
	cacheRepo.On("Delete", "battle:challenge:1:status").Return(nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 2)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.Equal(t, 30, outcome.NewHP, "HP возвращается текущее, без изменения")
	participantRepo.AssertNotCalled(t, "ApplyAnswerStats", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "BroadcastEvent", mock.Anything, mock.Anything)
	participantRepo.AssertExpectations(t)
}

func TestAnswerService_Resolve_DefeatAnnouncedOnce(t *testing.T) {
	// Arrange: SetNX проигран (событие уже анонсировано другим процессом)
	svc, assignedRepo, participantRepo, challengeRepo, questionBank, cacheRepo, notifier := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77, Points: 60,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(1, nil)
	assignedRepo.On("MarkAnswered", uint(10), true).Return(true, nil)
	challengeRepo.On("TryApplyDamage", uint(1), 60).Return(&repository.DamageResult{
		NewHP: 0, JustDefeated: true, Applied: true,
	}, nil)
	participantRepo.On("ApplyAnswerStats", uint(5), 60).Return(nil)
	assignedRepo.On("SetResultHP", uint(10), 0).Return(nil)
	cacheRepo.On("Delete", "battle:challenge:1:status").Return(nil)
	cacheRepo.On("SetNX", "battle:challenge:1:defeat_announced", "1", mock.Anything).Return(false, nil)
	notifier.On("BroadcastEvent", ws.EventBattleHPUpdate, mock.Anything).Return(nil)

	// Act
	outcome, err := svc.Resolve(5, 10, 1)

	// Assert
	assert.NoError(t, err)
	assert.True(t, outcome.JustDefeated)
	notifier.AssertNotCalled(t, "BroadcastEvent", ws.EventBattleDefeated, mock.Anything)
}

func TestAnswerService_Resolve_QuestionBankError(t *testing.T) {
	// Arrange
	svc, assignedRepo, participantRepo, _, questionBank, _, _ := newAnswerServiceForTest()

	assignedRepo.On("GetByID", uint(10)).Return(&entity.AssignedQuestion{
		ID: 10, ParticipantID: 5, QuestionID: 77,
	}, nil)
	participantRepo.On("GetByID", uint(5)).Return(&entity.Participant{ID: 5, ChallengeID: 1}, nil)
	questionBank.On("GetCorrectOption", uint(77)).Return(0, errors.New("db down"))

	// Act
	_, err := svc.Resolve(5, 10, 0)

	// Assert
	assert.Error(t, err)
	assignedRepo.AssertNotCalled(t, "MarkAnswered", mock.Anything, mock.Anything)
}
