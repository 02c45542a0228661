package entity

import (
	"time"
)

// Константы состояний босс-челленджа
const (
	ChallengeStateScheduled = "scheduled"
	ChallengeStateActive    = "active"
	ChallengeStateClosing   = "closing"
	ChallengeStateDefeated  = "defeated"
	ChallengeStateExpired   = "expired"
)

// Challenge представляет босса с общим пулом здоровья (HP),
// который участники совместно атакуют правильными ответами.
// Единственные изменяемые поля после создания — HPRemaining и State.
type Challenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500;not null;default:''" json:"description"`
	HPTotal     int       `gorm:"column:hp_total;not null" json:"hp_total"`
	HPRemaining int       `gorm:"column:hp_remaining;not null" json:"hp_remaining"`
	State       string    `gorm:"size:20;not null;default:'scheduled';index" json:"state"`
	RewardXP    int       `gorm:"column:reward_xp;not null;default:0" json:"reward_xp"`
	RewardCoins int       `gorm:"not null;default:0" json:"reward_coins"`
	StartsAt    time.Time `gorm:"not null" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null;index" json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Challenge) TableName() string {
	return "challenges"
}

// IsActive проверяет, идет ли битва (урон принимается, запись открыта)
func (ch *Challenge) IsActive() bool {
	return ch.State == ChallengeStateActive
}

// IsScheduled проверяет, запланирован ли челлендж
func (ch *Challenge) IsScheduled() bool {
	return ch.State == ChallengeStateScheduled
}

// IsTerminal проверяет, завершен ли челлендж окончательно.
// Только из терминального состояния разрешено получение награды.
func (ch *Challenge) IsTerminal() bool {
	return ch.State == ChallengeStateDefeated || ch.State == ChallengeStateExpired
}

// IsDue проверяет, истекло ли время челленджа к моменту now.
// Используется ExpiryService для перевода active → expired.
func (ch *Challenge) IsDue(now time.Time) bool {
	return !ch.EndsAt.After(now)
}
