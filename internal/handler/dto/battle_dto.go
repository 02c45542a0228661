package dto

import (
	"github.com/yourusername/bossbattle-api/internal/domain/entity"
)

// ParticipantResponse — участник битвы в ответах API
type ParticipantResponse struct {
	ID               uint `json:"id"`
	ChallengeID      uint `json:"challenge_id"`
	ClientID         uint `json:"client_id"`
	DamageDealtTotal int  `json:"damage_dealt_total"`
	CorrectCount     int  `json:"correct_count"`
	RewardClaimed    bool `json:"reward_claimed"`
}

// NewParticipantResponse преобразует сущность участника в DTO
func NewParticipantResponse(p *entity.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:               p.ID,
		ChallengeID:      p.ChallengeID,
		ClientID:         p.ClientID,
		DamageDealtTotal: p.DamageDealtTotal,
		CorrectCount:     p.CorrectCount,
		RewardClaimed:    p.RewardClaimed,
	}
}

// NewParticipantListResponse преобразует список участников в DTO
func NewParticipantListResponse(participants []entity.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, NewParticipantResponse(&participants[i]))
	}
	return out
}

// AssignedQuestionResponse — назначенный вопрос в ответах API.
// Правильный вариант не отдается; was_correct появляется только после ответа.
type AssignedQuestionResponse struct {
	ID         uint     `json:"id"`
	QuestionID uint     `json:"question_id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Points     int      `json:"points"`
	Answered   bool     `json:"answered"`
	WasCorrect *bool    `json:"was_correct,omitempty"`
}

// NewAssignedQuestionListResponse объединяет назначения с текстами из банка вопросов
func NewAssignedQuestionListResponse(assigned []entity.AssignedQuestion, questions map[uint]entity.Question) []AssignedQuestionResponse {
	out := make([]AssignedQuestionResponse, 0, len(assigned))
	for i := range assigned {
		aq := &assigned[i]
		resp := AssignedQuestionResponse{
			ID:         aq.ID,
			QuestionID: aq.QuestionID,
			Points:     aq.Points,
			Answered:   aq.Answered,
		}
		if q, ok := questions[aq.QuestionID]; ok {
			resp.Text = q.Text
			resp.Options = q.Options
		}
		if aq.Answered {
			wasCorrect := aq.WasCorrect
			resp.WasCorrect = &wasCorrect
		}
		out = append(out, resp)
	}
	return out
}
