package websocket

// Типы широковещательных событий битвы.
// battle:defeated и battle:expired отправляются не более одного раза на челлендж —
// рассылку инициирует только тот запрос, который выполнил терминальный переход в БД.
const (
	EventBattleStarted  = "battle:started"
	EventBattleHPUpdate = "battle:hp_update"
	EventBattleDefeated = "battle:defeated"
	EventBattleExpired  = "battle:expired"
)

// Event — конверт сообщения, уходящего клиентам
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
