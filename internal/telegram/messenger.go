package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Messenger is the outbound side of the bot: it sends alert texts and
// resolves stored chat ids to live destinations. It satisfies the
// scheduler's Notifier and DestinationResolver.
//
// Sends are rate limited; Telegram throttles bots around 30 messages
// per second, and a tick with many due bosses would otherwise burst
// past that.
type Messenger struct {
	bot     *tgbotapi.BotAPI
	log     *zap.Logger
	limiter *rate.Limiter

	mu   sync.Mutex
	live map[int64]bool
}

func NewMessenger(bot *tgbotapi.BotAPI, log *zap.Logger) *Messenger {
	return &Messenger{
		bot:     bot,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(25), 5),
		live:    make(map[int64]bool),
	}
}

// Send delivers one text message. A failed send forgets the cached
// liveness of the chat so the next tick re-probes it.
func (m *Messenger) Send(dest int64, text string) error {
	if err := m.limiter.Wait(context.Background()); err != nil {
		return err
	}
	if _, err := m.bot.Send(tgbotapi.NewMessage(dest, text)); err != nil {
		m.forget(dest)
		return err
	}
	return nil
}

// Resolve checks that the chat behind target is still reachable. The
// probe result is cached for the process lifetime; a send failure
// invalidates it.
func (m *Messenger) Resolve(target int64) (int64, bool) {
	m.mu.Lock()
	ok, cached := m.live[target]
	m.mu.Unlock()
	if cached && ok {
		return target, true
	}

	_, err := m.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: target},
	})
	if err != nil {
		m.log.Debug("chat unreachable", zap.Int64("chat", target), zap.Error(err))
		return 0, false
	}

	m.mu.Lock()
	m.live[target] = true
	m.mu.Unlock()
	return target, true
}

func (m *Messenger) forget(dest int64) {
	m.mu.Lock()
	delete(m.live, dest)
	m.mu.Unlock()
}
