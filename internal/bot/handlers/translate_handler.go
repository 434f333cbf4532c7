package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTranslateHandler returns the handler that translates plain text
// messages and replies to them in thread.
func NewTranslateHandler(deps HandlerDeps) bot.HandlerFunc {
	return translateHandler{deps}.Handle
}

type translateHandler struct {
	deps HandlerDeps
}

func (h translateHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "translate")

	msg, ok := translatable(update)
	if !ok {
		log.DebugContext(ctx, "Ignoring update", "update_id", update.ID)
		return
	}

	reply, ok := h.deps.Processor.Process(ctx, msg.Text)
	if !ok {
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            reply,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID, AllowSendingWithoutReply: true},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", msg.Chat.ID)
		return
	}
	log.DebugContext(ctx, "Reply sent", "chat_id", msg.Chat.ID, "message_id", msg.ID)
}

// translatable returns the message of update when it is non-empty text that
// is not a bot command.
func translatable(update *models.Update) (*models.Message, bool) {
	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return nil, false
	}
	if isCommand(msg) {
		return nil, false
	}
	return msg, true
}

// isCommand reports whether msg starts with a bot_command entity. Text that
// merely begins with a slash, like a path, is still translated.
func isCommand(msg *models.Message) bool {
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}
