package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/jmjm940628-pixel/BossTimerBot/internal/domain"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/schedule"
)

// Router wires Telegram updates to schedule operations and formats
// replies. The chat id doubles as the tenant id and the notify target:
// alerts go back to the chat the kill was registered in.
type Router struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	store *schedule.Store
	loc   *time.Location
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, store *schedule.Store, loc *time.Location) *Router {
	return &Router{bot: bot, log: log, store: store, loc: loc}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		r.handleStart(chatID)
	case strings.HasPrefix(text, "/bosses"):
		r.handleList(chatID)
	case strings.HasPrefix(text, "/track"):
		r.handleTrack(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/track")))
	case strings.HasPrefix(text, "/untrack"):
		r.handleUntrack(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/untrack")))
	case strings.HasPrefix(text, "."):
		// Shorthand from the game chats: ".Venatus 13:30"
		r.handleTrack(ctx, chatID, strings.TrimPrefix(text, "."))
	default:
		// Not for us; group chats carry plenty of unrelated text.
	}
}

func (r *Router) handleStart(chatID int64) {
	r.sendText(chatID, fmt.Sprintf(startText, catalogLines()))
}

func (r *Router) handleList(chatID int64) {
	events := r.store.List(tenantID(chatID))
	if len(events) == 0 {
		r.sendText(chatID, listEmpty)
		return
	}

	now := time.Now()
	var b strings.Builder
	b.WriteString(listTitle)
	for _, ev := range events {
		b.WriteByte('\n')
		b.WriteString(listLine(ev, now, r.loc))
	}
	r.sendText(chatID, b.String())
}

func (r *Router) handleTrack(ctx context.Context, chatID int64, args string) {
	name, clock, ok := splitNameClock(args)
	if !ok {
		r.sendText(chatID, errUsageTrack)
		return
	}

	hh, mm, err := domain.ParseClock(clock)
	if err != nil {
		r.sendText(chatID, errInvalidTime)
		return
	}
	canonical, _, err := domain.CycleHours(name)
	if err != nil {
		r.sendText(chatID, errUnknownBoss)
		return
	}
	killedAt, spawnsAt, cycle, err := domain.ComputeOccurrence(canonical, hh, mm, time.Now(), r.loc)
	if err != nil {
		// Inputs were validated above; anything here is a bug.
		r.log.Error("compute occurrence failed", zap.String("boss", canonical), zap.Error(err))
		r.sendText(chatID, errInternal)
		return
	}

	r.store.Register(ctx, tenantID(chatID), domain.Event{
		Name:         canonical,
		KilledAt:     killedAt,
		SpawnsAt:     spawnsAt,
		NotifyTarget: chatID,
	})
	r.sendText(chatID, fmt.Sprintf(trackedFmt,
		canonical,
		killedAt.In(r.loc).Format("01/02 15:04"),
		spawnsAt.In(r.loc).Format("01/02 15:04"),
		cycle,
	))
}

func (r *Router) handleUntrack(ctx context.Context, chatID int64, name string) {
	if name == "" {
		r.sendText(chatID, errUsageUntrack)
		return
	}
	canonical, _, err := domain.CycleHours(name)
	if err != nil {
		r.sendText(chatID, errUnknownBoss)
		return
	}
	if err := r.store.Delete(ctx, tenantID(chatID), canonical); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			r.sendText(chatID, fmt.Sprintf(errNotTracked, canonical))
			return
		}
		r.log.Error("delete failed", zap.String("boss", canonical), zap.Error(err))
		r.sendText(chatID, errInternal)
		return
	}
	r.sendText(chatID, fmt.Sprintf(untrackedFmt, canonical))
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("reply send failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// tenantID renders the chat id as the opaque tenant key used by the
// schedule and the persisted document.
func tenantID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// splitNameClock splits "Lady Dalia 13:30" into the boss name and the
// clock token. The last field is the clock; boss names may contain
// spaces.
func splitNameClock(args string) (name, clock string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", "", false
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1], true
}

// catalogLines renders the boss catalog for the help text.
func catalogLines() string {
	var b strings.Builder
	for i, name := range domain.Names() {
		if i > 0 {
			b.WriteByte('\n')
		}
		_, hours, _ := domain.CycleHours(name)
		fmt.Fprintf(&b, "• %s — %dh", name, hours)
	}
	return b.String()
}

// listLine formats one tracked event with a status marker and the
// remaining time, in the bot's display zone.
func listLine(ev domain.Event, now time.Time, loc *time.Location) string {
	rem := ev.SpawnsAt.Sub(now)
	var marker, status string
	switch {
	case rem < 0:
		marker, status = "🔴", "⏰ overdue"
	case rem <= time.Hour:
		marker, status = "🟨", formatRemaining(rem)
	default:
		marker, status = "🟩", formatRemaining(rem)
	}
	return fmt.Sprintf("%s %s — %s (%s)", marker, ev.Name, ev.SpawnsAt.In(loc).Format("01/02 15:04"), status)
}

// formatRemaining renders a non-negative duration as "3h 25m left".
func formatRemaining(d time.Duration) string {
	mins := int(d.Minutes())
	return fmt.Sprintf("%dh %dm left", mins/60, mins%60)
}
