/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"

	"github.com/Seednode/movienight/games"
)

// telegramChannel sends replies through the bot API.
type telegramChannel struct {
	api *tgbotapi.BotAPI
}

func (t *telegramChannel) Send(ctx context.Context, chat int64, text string, styled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chat, text)
	if styled {
		msg.ParseMode = tgbotapi.ModeHTML
	}

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", chat, err)
	}
	return nil
}

func (t *telegramChannel) Delete(ctx context.Context, chat int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chat, messageID)); err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chat, err)
	}
	return nil
}

// toInbound keeps text messages and commands, and drops every other update.
func toInbound(update tgbotapi.Update) (Inbound, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil || m.Text == "" {
		return Inbound{}, false
	}

	in := Inbound{
		UserID:    m.From.ID,
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.IsCommand() {
		in.Command = m.Command()
		in.Args = m.CommandArguments()
	}

	return in, true
}

func pollUpdates(ctx context.Context, cfg *Config, api *tgbotapi.BotAPI, d *Dispatcher) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.pollTimeout / time.Second)

	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			in, ok := toInbound(update)
			if !ok {
				continue
			}

			logf(cfg, "BOT: %s from user %d in chat %d", in.describe(), in.UserID, in.ChatID)

			d.Dispatch(ctx, in)
		}
	}
}

// Run logs in to telegram and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *Config) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: movienight v%s", releaseVersion)

	list, err := NewListStore(cfg.dataFile)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(cfg.token)
	if err != nil {
		return fmt.Errorf("log in to telegram: %w", err)
	}

	logf(cfg, "BOT: Logged in as @%s", api.Self.UserName)

	ch := &telegramChannel{api: api}

	engine, err := games.NewEngine(clockwork.NewRealClock(), cfg.pace)
	if err != nil {
		return err
	}

	feed := newLiveFeed(cfg)
	go feed.run(ctx)

	store := games.NewStore(engine, ch,
		games.WithObserver(feed.publish),
		games.WithLogger(func(format string, args ...any) {
			logf(cfg, format, args...)
		}),
	)

	router := newRouter(cfg, NewGate(cfg.users), ch, list, store)
	dispatcher := newDispatcher(cfg, clockwork.NewRealClock(), router.Handle)

	if !cfg.noWeb {
		go func() {
			if err := ServePage(ctx, cfg, feed, api.Self.UserName); err != nil {
				errorf("%v", err)
			}
		}()
	}

	pollUpdates(ctx, cfg, api, dispatcher)
	dispatcher.Wait()

	logf(cfg, "STOP: movienight v%s", releaseVersion)

	return nil
}
