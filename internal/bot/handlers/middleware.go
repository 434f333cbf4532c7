// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Typing creates a middleware that shows the typing indicator in the chat
// before a translatable message is handled. Other updates pass through
// untouched. A failed chat action is logged and ignored.
func Typing(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if msg, ok := translatable(update); ok {
				_, err := bot.SendChatAction(ctx, &tgbot.SendChatActionParams{
					ChatID: msg.Chat.ID,
					Action: models.ChatActionTyping,
				})
				if err != nil {
					log := deps.Logger.With("middleware", "Typing")
					log.WarnContext(ctx, "Failed to send typing action", "error", err, "chat_id", msg.Chat.ID)
				}
			}

			next(ctx, bot, update)
		}
	}
}
