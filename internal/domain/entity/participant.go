package entity

import (
	"time"
)

// Participant представляет запись клиента в одном босс-челлендже.
// Уникальность пары (challenge_id, client_id) обеспечивается индексом в БД:
// проигравший гонку на создание перечитывает строку победителя.
type Participant struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ChallengeID      uint      `gorm:"not null;index;uniqueIndex:idx_participant_challenge_client" json:"challenge_id"`
	ClientID         uint      `gorm:"not null;index;uniqueIndex:idx_participant_challenge_client" json:"client_id"`
	DamageDealtTotal int       `gorm:"not null;default:0" json:"damage_dealt_total"`
	CorrectCount     int       `gorm:"not null;default:0" json:"correct_count"`
	RewardClaimed    bool      `gorm:"not null;default:false" json:"reward_claimed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}
