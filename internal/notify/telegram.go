// Package notify pushes new-order notifications to the shop owner's
// Telegram chat. Delivery is best-effort: an unconfigured bot is skipped
// silently, and a misbehaving Telegram API trips a circuit breaker so the
// storefront stops hammering it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Koalla18/TakeSmart/internal/order"
)

const defaultAPIBase = "https://api.telegram.org"

type Telegram struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *log.Logger
}

func NewTelegram(token, chatID string, logger *log.Logger) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "telegram",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		logger: logger,
	}
}

// WithAPIBase points the notifier at a different Telegram endpoint.
// Tests use it to target a local server.
func (t *Telegram) WithAPIBase(base string) *Telegram {
	t.apiBase = strings.TrimRight(base, "/")
	return t
}

func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

func (t *Telegram) NotifyOrderCreated(ctx context.Context, o *order.Order) error {
	if !t.Configured() {
		t.logger.Printf("telegram not configured, skipping notification for order %s", o.ID)
		return nil
	}

	_, err := t.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, t.send(ctx, FormatOrderMessage(o))
	})
	return err
}

func (t *Telegram) send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// FormatOrderMessage renders the owner-facing order summary.
func FormatOrderMessage(o *order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛒 <b>НОВЫЙ ЗАКАЗ #%s</b>\n\n", o.ID)
	fmt.Fprintf(&b, "👤 <b>Клиент:</b> %s\n", o.Name)
	fmt.Fprintf(&b, "📞 <b>Телефон:</b> %s\n", o.Phone)
	fmt.Fprintf(&b, "📧 <b>Email:</b> %s\n\n", o.Email)

	b.WriteString("🛍 <b>ТОВАРЫ:</b>\n")
	if len(o.Items) == 0 {
		b.WriteString("  Товары не указаны\n")
	}
	for _, it := range o.Items {
		lineTotal := it.PriceSnapshot * int64(it.Quantity)
		fmt.Fprintf(&b, "  • %s\n    %d шт. × %s = %s\n",
			it.Name, it.Quantity, FormatPrice(it.PriceSnapshot), FormatPrice(lineTotal))
	}

	fmt.Fprintf(&b, "\n💰 <b>ИТОГО: %s</b>\n\n", FormatPrice(o.TotalAmount))
	fmt.Fprintf(&b, "💳 <b>Оплата:</b> %s\n", o.PaymentMethod.Label())
	fmt.Fprintf(&b, "🚚 <b>Доставка:</b> %s\n", o.DeliveryMethod.Label())
	fmt.Fprintf(&b, "📍 <b>Адрес:</b> %s\n", o.DeliveryAddress)

	comment := o.Comment
	if comment == "" {
		comment = "—"
	}
	fmt.Fprintf(&b, "\n💬 <b>Комментарий:</b> %s\n", comment)
	fmt.Fprintf(&b, "📅 <b>Дата:</b> %s", o.CreatedAt.Format("02.01.2006 15:04"))

	return b.String()
}

// FormatPrice renders whole rubles with spaces as thousand separators.
func FormatPrice(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}

	out := b.String() + "₽"
	if neg {
		out = "-" + out
	}
	return out
}
