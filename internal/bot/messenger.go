package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/reply"
)

// Sender is the outbound side of a chat transport. Handlers depend on
// this instead of the concrete API client so tests can capture output.
type Sender interface {
	SendText(chatID int64, text string) error
	SendMarkdown(chatID int64, text string) error
	SendTyping(chatID int64) error
}

// TelegramMessenger sends through the Telegram Bot API. It satisfies
// both Sender and the delivery package's Messenger.
type TelegramMessenger struct {
	api *tgbotapi.BotAPI
	log *logger.Logger
}

// NewTelegramMessenger wraps an authenticated API client.
func NewTelegramMessenger(api *tgbotapi.BotAPI, log *logger.Logger) *TelegramMessenger {
	return &TelegramMessenger{api: api, log: log.With("component", "messenger")}
}

// SendText sends a plain text message.
func (m *TelegramMessenger) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("send text to chat %d: %w", chatID, err)
	}
	return nil
}

// SendMarkdown sends a Markdown-formatted message, falling back to plain
// text when Telegram rejects the markup.
func (m *TelegramMessenger) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := m.api.Send(msg); err != nil {
		m.log.Warn("markdown send failed, retrying plain", "chat_id", chatID, "error", err)
		return m.SendText(chatID, text)
	}
	return nil
}

// SendTyping shows the typing indicator so the learner knows to wait.
func (m *TelegramMessenger) SendTyping(chatID int64) error {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := m.api.Request(action); err != nil {
		return fmt.Errorf("send typing to chat %d: %w", chatID, err)
	}
	return nil
}

// SetCommands publishes the slash-command menu. The admin fan-out
// command stays unlisted.
func (m *TelegramMessenger) SetCommands() error {
	menu := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "subject", Description: reply.MenuSubject},
		tgbotapi.BotCommand{Command: "memo", Description: reply.MenuMemo},
		tgbotapi.BotCommand{Command: "hint", Description: reply.MenuHint},
		tgbotapi.BotCommand{Command: "question", Description: reply.MenuQuestion},
		tgbotapi.BotCommand{Command: "solve", Description: reply.MenuSolve},
		tgbotapi.BotCommand{Command: "giveup", Description: reply.MenuGiveUp},
		tgbotapi.BotCommand{Command: "freetalk", Description: reply.MenuFreeTalk},
	)
	if _, err := m.api.Request(menu); err != nil {
		return fmt.Errorf("set command menu: %w", err)
	}
	return nil
}
