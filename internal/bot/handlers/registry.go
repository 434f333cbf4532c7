package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler describes how a command handler is matched.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the bot commands keyed by their slash name.
// Plain text is not registered here; it reaches NewDefaultHandler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	return handlers
}

// NewDefaultHandler returns the handler for every update no command matched:
// the translator, behind the typing indicator.
func NewDefaultHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return Typing(deps)(NewTranslateHandler(deps))
}
