package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
	"github.com/yourusername/bossbattle-api/internal/domain/repository"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
)

func TestEnrollmentService_Enroll_NewParticipant(t *testing.T) {
	// Arrange
	challengeRepo := new(MockChallengeRepo)
	participantRepo := new(MockParticipantRepo)
	svc := NewEnrollmentService(challengeRepo, participantRepo)

	challengeRepo.On("GetByID", uint(1)).Return(&entity.Challenge{
		ID: 1, State: entity.ChallengeStateActive,
	}, nil)
	participantRepo.On("GetByChallengeAndClient", uint(1), uint(42)).Return(nil, apperrors.ErrNotFound)
	participantRepo.On("Create", mock.AnythingOfType("*entity.Participant")).Return(nil)

	// Act
	participant, err := svc.Enroll(1, 42)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(1), participant.ChallengeID)
	assert.Equal(t, uint(42), participant.ClientID)
	participantRepo.AssertExpectations(t)
}

func TestEnrollmentService_Enroll_AlreadyEnrolled(t *testing.T) {
	// Arrange: повторная запись возвращает существующую строку, не сбрасывая счетчики
	challengeRepo := new(MockChallengeRepo)
	participantRepo := new(MockParticipantRepo)
	svc := NewEnrollmentService(challengeRepo, participantRepo)

	challengeRepo.On("GetByID", uint(1)).Return(&entity.Challenge{
		ID: 1, State: entity.ChallengeStateActive,
	}, nil)
	participantRepo.On("GetByChallengeAndClient", uint(1), uint(42)).Return(&entity.Participant{
		ID: 7, ChallengeID: 1, ClientID: 42, DamageDealtTotal: 55, CorrectCount: 3,
	}, nil)

	// Act
	participant, err := svc.Enroll(1, 42)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(7), participant.ID)
	assert.Equal(t, 55, participant.DamageDealtTotal, "Счетчики существующего участника должны сохраниться")
	participantRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestEnrollmentService_Enroll_RaceLoserRereadsWinner(t *testing.T) {
	// Arrange: Create падает с unique violation — перечитываем строку победителя
	challengeRepo := new(MockChallengeRepo)
	participantRepo := new(MockParticipantRepo)
	svc := NewEnrollmentService(challengeRepo, participantRepo)

	challengeRepo.On("GetByID", uint(1)).Return(&entity.Challenge{
		ID: 1, State: entity.ChallengeStateActive,
	}, nil)
	participantRepo.On("GetByChallengeAndClient", uint(1), uint(42)).Return(nil, apperrors.ErrNotFound).Once()
	participantRepo.On("Create", mock.AnythingOfType("*entity.Participant")).Return(repository.ErrDuplicateParticipant)
	participantRepo.On("GetByChallengeAndClient", uint(1), uint(42)).Return(&entity.Participant{
		ID: 7, ChallengeID: 1, ClientID: 42,
	}, nil).Once()

	// Act
	participant, err := svc.Enroll(1, 42)

	// Assert
	assert.NoError(t, err, "Проигрыш гонки записи — не ошибка для клиента")
	assert.Equal(t, uint(7), participant.ID)
	participantRepo.AssertExpectations(t)
}

func TestEnrollmentService_Enroll_ChallengeNotActive(t *testing.T) {
	// Arrange
	challengeRepo := new(MockChallengeRepo)
	participantRepo := new(MockParticipantRepo)
	svc := NewEnrollmentService(challengeRepo, participantRepo)

	challengeRepo.On("GetByID", uint(1)).Return(&entity.Challenge{
		ID: 1, State: entity.ChallengeStateScheduled,
	}, nil)

	// Act
	_, err := svc.Enroll(1, 42)

	// Assert
	assert.ErrorIs(t, err, ErrChallengeNotJoinable, "Запись возможна только в активный челлендж")
	participantRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestEnrollmentService_Enroll_ChallengeNotFound(t *testing.T) {
	// Arrange
	challengeRepo := new(MockChallengeRepo)
	participantRepo := new(MockParticipantRepo)
	svc := NewEnrollmentService(challengeRepo, participantRepo)

	challengeRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	// Act
	_, err := svc.Enroll(99, 42)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
