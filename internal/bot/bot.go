// Package bot is the chat transport: it polls for updates, dispatches
// slash commands and plain text to Handlers, and keeps a single bad
// update from taking the process down.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/reply"
)

// Bot runs the polling loop.
type Bot struct {
	api             *tgbotapi.BotAPI
	messenger       *TelegramMessenger
	handlers        *Handlers
	developerChatID int64
	log             *logger.Logger
}

// New connects to the Telegram API and wires the transport.
func New(token string, developerChatID int64, log *logger.Logger) (*Bot, *TelegramMessenger, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to telegram: %w", err)
	}

	messenger := NewTelegramMessenger(api, log)
	b := &Bot{
		api:             api,
		messenger:       messenger,
		developerChatID: developerChatID,
		log:             log.With("component", "bot"),
	}
	return b, messenger, nil
}

// SetHandlers attaches the command handlers. Must be called before Run.
func (b *Bot) SetHandlers(h *Handlers) {
	b.handlers = h
}

// Run polls for updates until the context is cancelled. Each update is
// handled on its own goroutine so a slow oracle call never blocks other
// learners.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.messenger.SetCommands(); err != nil {
		b.log.Warn("set command menu failed", "error", err)
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handleUpdate(ctx, update.Message)
		}
	}
}

// handleUpdate dispatches one message, recovering from panics so a
// single update cannot crash the loop. Failures are reported to the
// developer chat and apologized for in the learner's chat.
func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	defer func() {
		if r := recover(); r != nil {
			b.reportFailure(userID, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := b.dispatch(ctx, msg); err != nil {
		b.reportFailure(userID, err)
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID

	if !msg.IsCommand() {
		if msg.Text == "" {
			return nil
		}
		return b.handlers.PlainText(ctx, userID, msg.Text)
	}

	args := msg.CommandArguments()
	switch msg.Command() {
	case "start":
		return b.handlers.Start(ctx, userID, msg.From.FirstName)
	case "subject":
		return b.handlers.Subject(ctx, userID, args)
	case "memo":
		return b.handlers.Memo(ctx, userID, args)
	case "hint":
		return b.handlers.Hint(ctx, userID)
	case "question":
		return b.handlers.Question(ctx, userID)
	case "solve":
		return b.handlers.Solve(ctx, userID, args)
	case "giveup":
		return b.handlers.GiveUp(ctx, userID)
	case "freetalk":
		return b.handlers.FreeTalk(ctx, userID)
	case "daily_question":
		return b.handlers.DailyQuestion(ctx, userID, args)
	default:
		return nil
	}
}

// reportFailure logs the error, forwards it to the developer chat when
// one is configured, and apologizes to the learner.
func (b *Bot) reportFailure(userID int64, err error) {
	b.log.Error("update handling failed", "user_id", userID, "error", err)

	if b.developerChatID != 0 {
		text := fmt.Sprintf("Update from user %d caused error: %v", userID, err)
		if sendErr := b.messenger.SendText(b.developerChatID, text); sendErr != nil {
			b.log.Error("developer notification failed", "error", sendErr)
		}
	}

	if sendErr := b.messenger.SendText(userID, reply.TutorError); sendErr != nil {
		b.log.Error("apology send failed", "user_id", userID, "error", sendErr)
	}
}
