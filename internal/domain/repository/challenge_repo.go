package repository

import (
	"time"

	"github.com/yourusername/bossbattle-api/internal/domain/entity"
)

// DamageResult — результат одной атомарной попытки нанесения урона.
type DamageResult struct {
	// NewHP — hp_remaining после операции (или текущее значение, если урон не применялся)
	NewHP int
	// JustDefeated == true ровно у одного вызова за всю жизнь челленджа:
	// у того, чей UPDATE перевел босса в состояние defeated.
	JustDefeated bool
	// Applied == false, если челлендж был не в состоянии active и урон не применялся
	Applied bool
}

// ChallengeRepository определяет методы для работы с босс-челленджами.
// TryApplyDamage и MarkExpiredIfDue — единственные мутаторы пары
// (hp_remaining, state); оба реализуются одним условным UPDATE.
type ChallengeRepository interface {
	GetByID(id uint) (*entity.Challenge, error)

	// TryApplyDamage атомарно уменьшает hp_remaining на amount (с клампом в 0),
	// только если state = active. Если результат 0 — в том же UPDATE переводит
	// челлендж в defeated. Для неактивного челленджа — no-op с текущим HP.
	TryApplyDamage(challengeID uint, amount int) (*DamageResult, error)

	// MarkExpiredIfDue переводит active → expired, только если ends_at <= now.
	// Возвращает true, если переход выполнил именно этот вызов.
	MarkExpiredIfDue(challengeID uint, now time.Time) (bool, error)

	// TransitionState переводит from → to одним условным UPDATE.
	// Возвращает true, если переход выполнен (строка была в состоянии from).
	TransitionState(challengeID uint, from, to string) (bool, error)

	// ListDueActive возвращает активные челленджи с истекшим ends_at
	ListDueActive(now time.Time) ([]entity.Challenge, error)
}
