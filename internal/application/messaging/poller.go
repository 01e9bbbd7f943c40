package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// Subscriber suscripción a mensajes nuevos de una conversación. La función
// devuelta cancela la suscripción y puede llamarse más de una vez.
type Subscriber interface {
	OnNewMessage(conversation string, fn func(entity.ChatMessage)) (cancel func())
}

// Poller implementa Subscriber releyendo la transcripción a intervalo fijo.
type Poller struct {
	chat     *Chat
	interval time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	cancel map[int]func()
	next   int
	wg     sync.WaitGroup
}

var _ Subscriber = (*Poller)(nil)

// NewPoller construye el sondeo.
func NewPoller(chat *Chat, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{chat: chat, interval: interval, log: log, cancel: map[int]func(){}}
}

// OnNewMessage entrega a fn, en orden, los mensajes enviados después de suscribirse.
func (p *Poller) OnNewMessage(conversation string, fn func(entity.ChatMessage)) func() {
	ctx, stop := context.WithCancel(context.Background())
	cursor, _, err := p.chat.lastSeq(ctx, conversation)
	if err != nil {
		p.log.Warn().Err(err).Str("conversation", conversation).Msg("sondeo: cursor inicial")
	}

	p.mu.Lock()
	id := p.next
	p.next++
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stop()
			p.mu.Lock()
			delete(p.cancel, id)
			p.mu.Unlock()
		})
	}
	p.cancel[id] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				msgs, err := p.chat.History(ctx, conversation, cursor)
				if err != nil {
					p.log.Debug().Err(err).Str("conversation", conversation).Msg("sondeo fallido")
					continue
				}
				for _, m := range msgs {
					if ctx.Err() != nil {
						return
					}
					fn(m)
					cursor = m.Seq
				}
			}
		}
	}()
	return cancel
}

// Wait bloquea hasta el primer mensaje nuevo o hasta que ctx termine (long polling).
func (p *Poller) Wait(ctx context.Context, conversation string, after int64) ([]entity.ChatMessage, error) {
	msgs, err := p.chat.History(ctx, conversation, after)
	if err != nil || len(msgs) > 0 {
		return msgs, err
	}
	got := make(chan entity.ChatMessage, 1)
	cancel := p.OnNewMessage(conversation, func(m entity.ChatMessage) {
		select {
		case got <- m:
		default:
		}
	})
	defer cancel()
	select {
	case <-ctx.Done():
		return []entity.ChatMessage{}, nil
	case <-got:
		return p.chat.History(ctx, conversation, after)
	}
}

// Close cancela todas las suscripciones y espera a que terminen.
func (p *Poller) Close() {
	p.mu.Lock()
	cancels := make([]func(), 0, len(p.cancel))
	for _, c := range p.cancel {
		cancels = append(cancels, c)
	}
	p.mu.Unlock()
	for _, c := range cancels {
		c()
	}
	p.wg.Wait()
}
