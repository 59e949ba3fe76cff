/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"

	"github.com/Seednode/movienight/games"
)

const deniedReply = "У вас нет доступа к этому боту."

// Gate knows which telegram users may talk to the bot.
type Gate struct {
	allowed map[int64]struct{}
}

func NewGate(users []int64) *Gate {
	g := &Gate{allowed: make(map[int64]struct{}, len(users))}
	for _, id := range users {
		g.allowed[id] = struct{}{}
	}
	return g
}

func (g *Gate) Authorized(userID int64) bool {
	_, ok := g.allowed[userID]
	return ok
}

// restricted answers unknown users with a denial and never calls next for them.
func restricted(cfg *Config, gate *Gate, ch games.Channel, next handler) handler {
	return func(ctx context.Context, in Inbound) error {
		if !gate.Authorized(in.UserID) {
			logf(cfg, "BOT: Denied %s from user %d", in.describe(), in.UserID)
			return ch.Send(ctx, in.ChatID, deniedReply, false)
		}
		return next(ctx, in)
	}
}

// restrictedText guards free text. Outside a private chat, text from unknown
// users is ordinary group chatter and gets no reply at all.
func restrictedText(cfg *Config, gate *Gate, ch games.Channel, next handler) handler {
	return func(ctx context.Context, in Inbound) error {
		if gate.Authorized(in.UserID) {
			return next(ctx, in)
		}
		if in.ChatID != in.UserID {
			return nil
		}

		logf(cfg, "BOT: Denied %s from user %d", in.describe(), in.UserID)
		return ch.Send(ctx, in.ChatID, deniedReply, false)
	}
}
