package gamification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Ledger — внешний геймификационный леджер платформы.
// Credit обязан быть идемпотентным по idempotencyKey: повторный вызов
// с тем же ключом не приводит к повторному начислению.
type Ledger interface {
	Credit(ctx context.Context, clientID uint, xp, coins int, idempotencyKey string) error
}

// creditRequest — тело запроса на начисление
type creditRequest struct {
	ClientID uint `json:"client_id"`
	XP       int  `json:"xp"`
	Coins    int  `json:"coins"`
}

// HTTPLedger реализует Ledger поверх HTTP API леджера
type HTTPLedger struct {
	baseURL string
	client  *http.Client
}

// NewHTTPLedger создает новый HTTP-клиент леджера
func NewHTTPLedger(baseURL string, timeout time.Duration) *HTTPLedger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPLedger{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Credit начисляет XP и монеты клиенту. Ключ идемпотентности уходит в заголовке
// Idempotency-Key; ответ 409 означает, что начисление с этим ключом уже было
// выполнено ранее — для нас это успех.
func (l *HTTPLedger) Credit(ctx context.Context, clientID uint, xp, coins int, idempotencyKey string) error {
	body, err := json.Marshal(creditRequest{ClientID: clientID, XP: xp, Coins: coins})
	if err != nil {
		return fmt.Errorf("failed to marshal credit request: %w", err)
	}

	url := l.baseURL + "/api/ledger/credits"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build credit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger credit request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// Начисление с этим ключом уже проведено — идемпотентный повтор
		log.Printf("[Ledger] Начисление с ключом %s уже выполнено ранее (409)", idempotencyKey)
		return nil
	default:
		return fmt.Errorf("ledger credit returned status %d", resp.StatusCode)
	}
}
