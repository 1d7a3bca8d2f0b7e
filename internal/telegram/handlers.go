package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/profile"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/session"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/store"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	r.send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) send(msg tgbotapi.MessageConfig) {
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send reply failed", zap.Error(err), zap.Int64("chatID", msg.ChatID))
	}
}

// --- Registration flow ---

func (r *Router) handleStart(ctx context.Context, in inbound) {
	u, err := r.dir.Get(ctx, in.identity)
	switch {
	case err == nil:
		r.sessions.Clear(in.identity)
		r.sendText(in.chatID, welcomeBackText(u))
		return
	case !errors.Is(err, store.ErrNotFound):
		r.log.Error("get user failed", zap.Error(err), zap.String("identity", in.identity))
		r.sendText(in.chatID, internalErrText)
		return
	}

	r.sessions.Set(in.identity, session.State{Step: session.AwaitingCredential})
	r.sendText(in.chatID, startText)
}

// handleText dispatches free-form text according to the registration step.
func (r *Router) handleText(ctx context.Context, in inbound) {
	st := r.sessions.Get(in.identity)
	switch st.Step {
	case session.AwaitingCredential:
		r.handleCredential(ctx, in)
	case session.AwaitingOffset:
		r.handleOffset(ctx, in, st)
	default:
		r.sendText(in.chatID, fallbackText)
	}
}

func (r *Router) handleCredential(ctx context.Context, in inbound) {
	credential := strings.TrimSpace(in.text)
	if credential == "" {
		r.sendText(in.chatID, emptyKeyText)
		return
	}

	// The key should not linger in the chat history.
	if _, err := r.bot.Request(tgbotapi.NewDeleteMessage(in.chatID, in.msgID)); err != nil {
		r.log.Debug("delete credential message failed", zap.Error(err), zap.Int64("chatID", in.chatID))
	}

	r.sendText(in.chatID, validatingText)

	p, err := r.profiles.FetchProfile(ctx, credential)
	if err != nil {
		r.log.Info("credential validation failed", zap.Error(err), zap.String("identity", in.identity))
		if errors.Is(err, profile.ErrRejected) {
			r.sendText(in.chatID, invalidKeyText)
		} else {
			r.sendText(in.chatID, unavailableText)
		}
		return
	}

	r.sessions.Set(in.identity, session.State{
		Step:       session.AwaitingOffset,
		Credential: credential,
		Profile:    p,
	})
	msg := tgbotapi.NewMessage(in.chatID, askOffsetText(p.Name))
	msg.ReplyMarkup = offsetKeyboard()
	r.send(msg)
}

func (r *Router) handleOffset(ctx context.Context, in inbound, st session.State) {
	offset, err := domain.ParseOffset(in.text)
	if err != nil {
		msg := tgbotapi.NewMessage(in.chatID, invalidOffset)
		msg.ReplyMarkup = offsetKeyboard()
		r.send(msg)
		return
	}

	name := "Unknown"
	if st.Profile != nil {
		name = st.Profile.Name
	}
	u := &domain.User{
		Identity:     in.identity,
		Credential:   st.Credential,
		OffsetHours:  offset,
		DisplayName:  name,
		ChatID:       in.chatID,
		RegisteredAt: r.now().UTC(),
	}
	if err := r.dir.Put(ctx, u); err != nil {
		r.log.Error("save user failed", zap.Error(err), zap.String("identity", in.identity))
		r.sendText(in.chatID, internalErrText)
		return
	}
	r.sessions.Clear(in.identity)
	r.log.Info("user registered", zap.String("identity", in.identity), zap.Int("offset", offset))

	msg := tgbotapi.NewMessage(in.chatID, registeredText(u))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	r.send(msg)
}

func (r *Router) handleCancel(in inbound) {
	if r.sessions.Get(in.identity).Step == session.None {
		r.sendText(in.chatID, nothingToCancel)
		return
	}
	r.sessions.Clear(in.identity)
	msg := tgbotapi.NewMessage(in.chatID, cancelledText)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	r.send(msg)
}

// --- Commands ---

func (r *Router) handleStatus(ctx context.Context, in inbound) {
	u, err := r.dir.Get(ctx, in.identity)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(in.chatID, notRegisteredTxt)
		return
	}
	if err != nil {
		r.log.Error("get user failed", zap.Error(err), zap.String("identity", in.identity))
		r.sendText(in.chatID, internalErrText)
		return
	}

	p, err := r.profiles.FetchProfile(ctx, u.Credential)
	if err != nil {
		r.log.Info("status fetch failed", zap.Error(err), zap.String("identity", in.identity))
		r.sendText(in.chatID, fetchFailedText)
		return
	}
	r.sendText(in.chatID, statusText(u, p.StreakDays))
}

func (r *Router) handleReset(ctx context.Context, in inbound) {
	r.sessions.Clear(in.identity)
	err := r.dir.Delete(ctx, in.identity)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(in.chatID, notRegisteredTxt)
		return
	}
	if err != nil {
		r.log.Error("delete user failed", zap.Error(err), zap.String("identity", in.identity))
		r.sendText(in.chatID, internalErrText)
		return
	}
	r.log.Info("user reset", zap.String("identity", in.identity))
	r.sendText(in.chatID, resetText)
}
