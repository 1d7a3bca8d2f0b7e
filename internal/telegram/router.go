package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/profile"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/session"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/store"
)

// Messenger is the part of *tgbotapi.BotAPI the router uses.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// ProfileFetcher validates credentials and reads live streaks.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, credential string) (*profile.Profile, error)
}

// Router wires Telegram updates to handlers. Registration progress lives in
// an in-memory session store; registered users live in the directory.
type Router struct {
	bot      Messenger
	log      *zap.Logger
	dir      store.Directory
	profiles ProfileFetcher
	sessions *session.Store
	now      func() time.Time
}

// NewRouter creates a new Telegram router.
func NewRouter(bot Messenger, log *zap.Logger, dir store.Directory, profiles ProfileFetcher, sessions *session.Store) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		dir:      dir,
		profiles: profiles,
		sessions: sessions,
		now:      time.Now,
	}
}

// inbound is one user message reduced to what the handlers need.
type inbound struct {
	identity string
	chatID   int64
	msgID    int
	text     string
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}
	in := inbound{
		identity: strconv.FormatInt(msg.From.ID, 10),
		chatID:   msg.Chat.ID,
		msgID:    msg.MessageID,
		text:     msg.Text,
	}

	if !msg.IsCommand() {
		r.handleText(ctx, in)
		return
	}

	switch msg.Command() {
	case "start":
		r.handleStart(ctx, in)
	case "status":
		r.handleStatus(ctx, in)
	case "reset":
		r.handleReset(ctx, in)
	case "cancel":
		r.handleCancel(in)
	case "help":
		r.sendText(in.chatID, commandsText)
	default:
		r.sendText(in.chatID, fallbackText)
	}
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
