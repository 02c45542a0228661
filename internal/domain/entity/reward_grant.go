package entity

import (
	"time"
)

// RewardGrant — журнальная запись о выдаче награды участнику.
// ID (uuid) служит ключом идемпотентности для внешнего геймификационного леджера:
// даже если выставление флага reward_claimed и вызов леджера не попадают в одну
// транзакцию, повторный credit с тем же ключом не приведет к двойному начислению.
// Уникальный индекс по participant_id — второй уровень защиты.
type RewardGrant struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID uint      `gorm:"not null;uniqueIndex" json:"participant_id"`
	ChallengeID   uint      `gorm:"not null;index" json:"challenge_id"`
	ClientID      uint      `gorm:"not null;index" json:"client_id"`
	XP            int       `gorm:"column:xp;not null" json:"xp"`
	Coins         int       `gorm:"not null" json:"coins"`
	Credited      bool      `gorm:"not null;default:false" json:"credited"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (RewardGrant) TableName() string {
	return "reward_grants"
}
