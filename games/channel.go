/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"html"
)

// Channel delivers replies back to a chat.
type Channel interface {
	// Send posts text to chat. Styled text is interpreted as Telegram HTML.
	Send(ctx context.Context, chat int64, text string, styled bool) error
	// Delete removes a message. Callers treat it as best-effort.
	Delete(ctx context.Context, chat int64, messageID int) error
}

// Bold wraps user supplied text in emphasis markup.
func Bold(s string) string {
	return "<b>" + html.EscapeString(s) + "</b>"
}

// Spoiler hides user supplied text until the reader taps it.
func Spoiler(s string) string {
	return "<tg-spoiler>" + html.EscapeString(s) + "</tg-spoiler>"
}
