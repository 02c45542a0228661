package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Hub ведет учет подключенных клиентов и рассылает им события битвы.
// Это единственный канал доставки hp_update/defeated до UI: клиент рендерит
// полученные newHp/justDefeated и не выводит победу самостоятельно.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub создает новый хаб событий битвы
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
	}
}

// Run запускает цикл обработки хаба; завершается по отмене контекста
func (h *Hub) Run(ctx context.Context) {
	log.Println("[BattleHub] Запуск хаба событий битвы")
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[BattleHub] Клиент подключен, всего: %d", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[BattleHub] Клиент отключен, всего: %d", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает читать — отключаем, чтобы не копить буфер
					delete(h.clients, client)
					close(client.send)
				}
			}

		case <-ctx.Done():
			log.Println("[BattleHub] Остановка хаба событий битвы")
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// BroadcastEvent сериализует событие и рассылает его всем подключенным клиентам
func (h *Hub) BroadcastEvent(eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	select {
	case h.broadcast <- payload:
		return nil
	default:
		// Канал переполнен; событие теряется только для рассылки, состояние в БД уже зафиксировано
		log.Printf("[BattleHub] Предупреждение: канал рассылки переполнен, событие %s отброшено", eventType)
		return fmt.Errorf("broadcast channel is full")
	}
}
