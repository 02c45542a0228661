package service

// BattleNotifier рассылает события битвы подключенным клиентам.
// Реализуется websocket.Hub; в тестах подменяется моком.
type BattleNotifier interface {
	BroadcastEvent(eventType string, data interface{}) error
}
