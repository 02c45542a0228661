package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/bossbattle-api/internal/handler/dto"
	apperrors "github.com/yourusername/bossbattle-api/internal/pkg/errors"
	"github.com/yourusername/bossbattle-api/internal/service"
)

// BattleHandler обрабатывает запросы движка босс-битвы
type BattleHandler struct {
	enrollmentService *service.EnrollmentService
	answerService     *service.AnswerService
	rewardService     *service.RewardService
	challengeService  *service.ChallengeService
}

// NewBattleHandler создает новый обработчик битвы
func NewBattleHandler(
	enrollmentService *service.EnrollmentService,
	answerService *service.AnswerService,
	rewardService *service.RewardService,
	challengeService *service.ChallengeService,
) *BattleHandler {
	return &BattleHandler{
		enrollmentService: enrollmentService,
		answerService:     answerService,
		rewardService:     rewardService,
		challengeService:  challengeService,
	}
}

// Enroll записывает аутентифицированного клиента в челлендж.
// Повторный вызов возвращает существующего участника (идемпотентность).
func (h *BattleHandler) Enroll(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)
	clientID := c.MustGet("client_id").(uint)

	participant, err := h.enrollmentService.Enroll(challengeID, clientID)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// GetStatus возвращает публичный статус битвы (HP, состояние)
func (h *BattleHandler) GetStatus(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)

	status, err := h.challengeService.GetStatus(challengeID)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListParticipants возвращает доску участников челленджа
func (h *BattleHandler) ListParticipants(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)

	participants, err := h.challengeService.ListParticipants(challengeID)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantListResponse(participants))
}

// ListQuestions возвращает назначенные участнику вопросы
func (h *BattleHandler) ListQuestions(c *gin.Context) {
	participant, ok := h.requireParticipantOwnership(c)
	if !ok {
		return
	}

	assigned, questions, err := h.answerService.ListAssignedQuestions(participant.ID)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAssignedQuestionListResponse(assigned, questions))
}

// ResolveAnswerRequest представляет отправку ответа на назначенный вопрос
type ResolveAnswerRequest struct {
	AssignedQuestionID uint `json:"assigned_question_id" binding:"required"`
	SelectedOption     *int `json:"selected_option" binding:"required"`
}

// ResolveAnswer разрешает ответ участника: проверка по банку вопросов и
// атомарный урон по боссу. Повторная отправка безопасна.
func (h *BattleHandler) ResolveAnswer(c *gin.Context) {
	participant, ok := h.requireParticipantOwnership(c)
	if !ok {
		return
	}

	var req ResolveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.SelectedOption < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "selected_option must be non-negative"})
		return
	}

	outcome, err := h.answerService.Resolve(participant.ID, req.AssignedQuestionID, *req.SelectedOption)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ClaimReward выдает награду участнику после завершения челленджа.
// Повторный вызов возвращает granted = false без повторного начисления.
func (h *BattleHandler) ClaimReward(c *gin.Context) {
	participant, ok := h.requireParticipantOwnership(c)
	if !ok {
		return
	}

	result, err := h.rewardService.Claim(c.Request.Context(), participant.ID)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ActivateChallenge переводит челлендж scheduled → active (админ)
func (h *BattleHandler) ActivateChallenge(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)

	if err := h.challengeService.Activate(challengeID); err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge activated"})
}

// CloseChallenge переводит челлендж active → closing (админ)
func (h *BattleHandler) CloseChallenge(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)

	if err := h.challengeService.Close(challengeID); err != nil {
		h.handleBattleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge closing"})
}

// requireParticipantOwnership загружает участника из :id и проверяет, что он
// принадлежит аутентифицированному клиенту (админам доступны все участники)
func (h *BattleHandler) requireParticipantOwnership(c *gin.Context) (participant *participantRef, ok bool) {
	participantID := c.MustGet("participantID").(uint)
	clientID := c.MustGet("client_id").(uint)
	isAdmin, _ := c.Get("is_admin")

	p, err := h.enrollmentService.GetParticipant(participantID)
	if err != nil {
		h.handleBattleError(c, err)
		return nil, false
	}

	if p.ClientID != clientID {
		if admin, _ := isAdmin.(bool); !admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Participant does not belong to this client"})
			return nil, false
		}
	}

	return &participantRef{ID: p.ID, ClientID: p.ClientID}, true
}

// participantRef — минимальная ссылка на участника для обработчиков
type participantRef struct {
	ID       uint
	ClientID uint
}

// handleBattleError преобразует ошибки сервисов в HTTP-ответы
func (h *BattleHandler) handleBattleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAssigned):
		c.JSON(http.StatusForbidden, gin.H{"error": "Question is not assigned to this participant"})
	case errors.Is(err, service.ErrChallengeNotJoinable):
		c.JSON(http.StatusConflict, gin.H{"error": "Challenge is not joinable"})
	case errors.Is(err, service.ErrChallengeNotFinished):
		c.JSON(http.StatusConflict, gin.H{"error": "Challenge is not finished yet"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary failure, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
