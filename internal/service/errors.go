package service

import "errors"

// Ошибки движка битвы. Идемпотентные повторы ("уже отвечено", "уже получено")
// ошибками НЕ являются — клиентские ретраи и двойные отправки здесь штатный
// сценарий, они возвращаются как успешные ответы с соответствующими флагами.
var (
	// ErrNotAssigned — участник попытался ответить на чужой вопрос
	ErrNotAssigned = errors.New("question is not assigned to this participant")

	// ErrChallengeNotJoinable — запись в челлендж вне состояния active
	ErrChallengeNotJoinable = errors.New("challenge is not joinable in its current state")

	// ErrChallengeNotFinished — попытка забрать награду до завершения челленджа
	ErrChallengeNotFinished = errors.New("challenge is not finished yet")
)
