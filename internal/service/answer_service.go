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

// AnswerOutcome — результат разрешения одного ответа.
// JustDefeated == true возвращается ровно один раз за челлендж — тому вызову,
// чей урон перевел босса в defeated.
type AnswerOutcome struct {
	Correct         bool `json:"correct"`
	NewHP           int  `json:"new_hp"`
	JustDefeated    bool `json:"just_defeated"`
	AlreadyResolved bool `json:"already_resolved"`
}

// AnswerService — ядро движка: проверяет ответ по банку вопросов и атомарно
// применяет урон к боссу. Повторная отправка того же ответа безопасна и
// возвращает сохраненный исход без каких-либо мутаций.
type AnswerService struct {
	assignedRepo    repository.AssignedQuestionRepository
	participantRepo repository.ParticipantRepository
	challengeRepo   repository.ChallengeRepository
	questionBank    repository.QuestionBankRepository
	cacheRepo       repository.CacheRepository
	notifier        BattleNotifier
}

// NewAnswerService создает новый сервис разрешения ответов
func NewAnswerService(
	assignedRepo repository.AssignedQuestionRepository,
	participantRepo repository.ParticipantRepository,
	challengeRepo repository.ChallengeRepository,
	questionBank repository.QuestionBankRepository,
	cacheRepo repository.CacheRepository,
	notifier BattleNotifier,
) *AnswerService {
	return &AnswerService{
		assignedRepo:    assignedRepo,
		participantRepo: participantRepo,
		challengeRepo:   challengeRepo,
		questionBank:    questionBank,
		cacheRepo:       cacheRepo,
		notifier:        notifier,
	}
}

// Resolve разрешает ответ участника на назначенный вопрос.
// Порядок шагов фиксирован: владение → идемпотентный повтор → проверка по банку →
// write-once пометка → урон → счетчики. Правильность НИКОГДА не берется из
// клиентского payload — только из банка вопросов.
func (s *AnswerService) Resolve(participantID, assignedQuestionID uint, selectedOption int) (*AnswerOutcome, error) {
	aq, err := s.assignedRepo.GetByID(assignedQuestionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Несуществующий вопрос неотличим от чужого — не раскрываем, что именно не так
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	if !aq.BelongsTo(participantID) {
		return nil, ErrNotAssigned
	}

	participant, err := s.participantRepo.GetByID(participantID)
	if err != nil {
		return nil, err
	}

	// Идемпотентный повтор: вопрос уже разрешен, возвращаем сохраненный исход
	if aq.Answered {
		return s.replayOutcome(aq, participant.ChallengeID)
	}

	correctOption, err := s.questionBank.GetCorrectOption(aq.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ground truth for question #%d: %w", aq.QuestionID, err)
	}
	correct := selectedOption == correctOption

	// Write-once: проигравший гонку одновременной отправки падает в ветку повтора
	marked, err := s.assignedRepo.MarkAnswered(aq.ID, correct)
	if err != nil {
		return nil, err
	}
	if !marked {
		reread, err := s.assignedRepo.GetByID(aq.ID)
		if err != nil {
			return nil, err
		}
		log.Printf("[AnswerResolver] Участник #%d проиграл гонку на вопрос #%d, возвращаем сохраненный исход", participantID, aq.ID)
		return s.replayOutcome(reread, participant.ChallengeID)
	}

	if !correct {
		challenge, err := s.challengeRepo.GetByID(participant.ChallengeID)
		if err != nil {
			return nil, err
		}
		s.recordResultHP(aq.ID, challenge.HPRemaining)
		return &AnswerOutcome{Correct: false, NewHP: challenge.HPRemaining}, nil
	}

	// Правильный ответ: атомарный урон. Для неактивного челленджа урон молча
	// не применяется (Applied == false), но correct_count все равно растет.
	damage, err := s.challengeRepo.TryApplyDamage(participant.ChallengeID, aq.Points)
	if err != nil {
		return nil, err
	}

	if damage.Applied {
		if err := s.participantRepo.ApplyAnswerStats(participant.ID, aq.Points); err != nil {
			log.Printf("[AnswerResolver] Ошибка обновления счетчиков участника #%d: %v", participant.ID, err)
		}
	} else {
		log.Printf("[AnswerResolver] Челлендж #%d уже не активен, урон за вопрос #%d не применен", participant.ChallengeID, aq.ID)
		if err := s.participantRepo.IncrementCorrectCount(participant.ID); err != nil {
			log.Printf("[AnswerResolver] Ошибка обновления correct_count участника #%d: %v", participant.ID, err)
		}
	}

	s.recordResultHP(aq.ID, damage.NewHP)
	s.invalidateStatusCache(participant.ChallengeID)

	if damage.Applied {
		s.broadcastHPUpdate(participant.ChallengeID, damage.NewHP)
	}
	if damage.JustDefeated {
		s.announceDefeat(participant.ChallengeID)
	}

	return &AnswerOutcome{
		Correct:      true,
		NewHP:        damage.NewHP,
		JustDefeated: damage.JustDefeated,
	}, nil
}

// ListAssignedQuestions возвращает назначенные участнику вопросы вместе с
// текстами из банка (без правильных вариантов)
func (s *AnswerService) ListAssignedQuestions(participantID uint) ([]entity.AssignedQuestion, map[uint]entity.Question, error) {
	assigned, err := s.assignedRepo.ListByParticipant(participantID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint, 0, len(assigned))
	for _, aq := range assigned {
		ids = append(ids, aq.QuestionID)
	}
	questions, err := s.questionBank.GetByIDs(ids)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uint]entity.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return assigned, byID, nil
}

// replayOutcome возвращает исход ранее разрешенного вопроса без мутаций.
// HPAfter записывается после применения урона; если запись не успела
// состояться (сбой между шагами), откатываемся на текущее HP босса.
func (s *AnswerService) replayOutcome(aq *entity.AssignedQuestion, challengeID uint) (*AnswerOutcome, error) {
	newHP := 0
	if aq.HPAfter != nil {
		newHP = *aq.HPAfter
	} else {
		challenge, err := s.challengeRepo.GetByID(challengeID)
		if err != nil {
			return nil, err
		}
		newHP = challenge.HPRemaining
	}
	return &AnswerOutcome{
		Correct:         aq.WasCorrect,
		NewHP:           newHP,
		AlreadyResolved: true,
	}, nil
}

// recordResultHP дописывает hp_after, чтобы повтор вернул идентичный результат
func (s *AnswerService) recordResultHP(assignedQuestionID uint, hp int) {
	if err := s.assignedRepo.SetResultHP(assignedQuestionID, hp); err != nil {
		log.Printf("[AnswerResolver] Ошибка записи hp_after для вопроса #%d: %v", assignedQuestionID, err)
	}
}

// invalidateStatusCache сбрасывает кешированный статус челленджа после урона
func (s *AnswerService) invalidateStatusCache(challengeID uint) {
	if err := s.cacheRepo.Delete(statusCacheKey(challengeID)); err != nil {
		log.Printf("[AnswerResolver] Ошибка сброса кеша статуса челленджа #%d: %v", challengeID, err)
	}
}

// broadcastHPUpdate рассылает новое HP зрителям битвы
func (s *AnswerService) broadcastHPUpdate(challengeID uint, newHP int) {
	event := map[string]interface{}{
		"challenge_id": challengeID,
		"hp_remaining": newHP,
	}
	if err := s.notifier.BroadcastEvent(ws.EventBattleHPUpdate, event); err != nil {
		log.Printf("[AnswerResolver] Ошибка рассылки hp_update для челленджа #%d: %v", challengeID, err)
	}
}

// announceDefeat рассылает событие о победе над боссом. Вызывается только из
// запроса с JustDefeated == true (переход в БД строго однократный); SetNX в
// Redis — дополнительная страховка от дублей при рассылке из нескольких процессов.
func (s *AnswerService) announceDefeat(challengeID uint) {
	key := fmt.Sprintf("battle:challenge:%d:defeat_announced", challengeID)
	acquired, err := s.cacheRepo.SetNX(key, "1", 24*time.Hour)
	if err != nil {
		// Redis недоступен: лучше рискнуть дублем рассылки, чем потерять событие
		log.Printf("[AnswerResolver] Ошибка SetNX при анонсе победы над боссом #%d: %v", challengeID, err)
		acquired = true
	}
	if !acquired {
		return
	}

	log.Printf("[AnswerResolver] Босс #%d повержен", challengeID)
	event := map[string]interface{}{
		"challenge_id": challengeID,
		"state":        entity.ChallengeStateDefeated,
	}
	if err := s.notifier.BroadcastEvent(ws.EventBattleDefeated, event); err != nil {
		log.Printf("[AnswerResolver] Ошибка рассылки события о победе над боссом #%d: %v", challengeID, err)
	}
}
