/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Seednode/movienight/games"
)

const (
	startReply    = "Привет! Это бот для ведения списка фильмов на просмотр. Для помощи введите /help"
	emptyReply    = "Список пуст..."
	alreadyEmpty  = "Список уже пуст."
	clearedReply  = "Список фильмов полностью очищен!"
	addUsage      = "Пожалуйста, укажите название фильма после команды"
	removeUsage   = "Пожалуйста, укажите название фильма для удаления после команды"
	notFoundReply = "Такого фильма в списке нет"
	addedReply    = "%s добавлен в список!"
	removedReply  = "Удален фильм %s"
	randomReply   = "Смотрим %s"
	helpReply     = `Доступные команды:
/start - начать работу с ботом
/help - показать меню помощи
/list - показать список фильмов
/add - добавить фильм в список
/remove - убрать фильм из списка
/random - выбрать случайный фильм из списка
/clear - очистить весь список
/game - выбрать фильм на выбывание из своих вариантов`
)

var errNotInList = errors.New("title not in list")

// Inbound is one message from telegram, reduced to what the handlers need.
type Inbound struct {
	UserID    int64
	ChatID    int64
	MessageID int
	Command   string
	Args      string
	Text      string
}

func (in Inbound) describe() string {
	if in.Command != "" {
		return "/" + in.Command
	}
	return "text"
}

type handler func(ctx context.Context, in Inbound) error

// Router sends commands to their handler and everything else to the game.
type Router struct {
	cfg      *Config
	ch       games.Channel
	commands map[string]handler
	text     handler
}

func newRouter(cfg *Config, gate *Gate, ch games.Channel, list *ListStore, store *games.Store) *Router {
	c := &commands{cfg: cfg, ch: ch, list: list, games: store}

	r := &Router{
		cfg:      cfg,
		ch:       ch,
		commands: make(map[string]handler),
	}

	for name, h := range map[string]handler{
		"start":  c.start,
		"help":   c.help,
		"list":   c.movieList,
		"add":    c.add,
		"remove": c.remove,
		"random": c.random,
		"clear":  c.clear,
		"game":   c.startGame,
	} {
		r.commands[name] = restricted(cfg, gate, ch, h)
	}
	r.text = restrictedText(cfg, gate, ch, c.turn)

	return r
}

// Handle processes one inbound message to completion.
func (r *Router) Handle(ctx context.Context, in Inbound) {
	h := r.text
	if in.Command != "" {
		var ok bool
		if h, ok = r.commands[in.Command]; !ok {
			return
		}
	}

	if err := h(ctx, in); err != nil {
		replyFailure(ctx, r.ch, in, err)
	}
}

type commands struct {
	cfg   *Config
	ch    games.Channel
	list  *ListStore
	games *games.Store
}

func title(args string) string {
	return strings.Join(strings.Fields(args), " ")
}

func (c *commands) start(ctx context.Context, in Inbound) error {
	return c.ch.Send(ctx, in.ChatID, startReply, false)
}

func (c *commands) help(ctx context.Context, in Inbound) error {
	return c.ch.Send(ctx, in.ChatID, helpReply, false)
}

func (c *commands) movieList(ctx context.Context, in Inbound) error {
	list, err := c.list.Load()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return c.ch.Send(ctx, in.ChatID, emptyReply, false)
	}
	return c.ch.Send(ctx, in.ChatID, strings.Join(list, "\n"), false)
}

func (c *commands) add(ctx context.Context, in Inbound) error {
	value := title(in.Args)
	if value == "" {
		return c.ch.Send(ctx, in.ChatID, addUsage, false)
	}

	err := c.list.Update(func(list []string) ([]string, error) {
		return append(list, value), nil
	})
	if err != nil {
		return err
	}

	logf(c.cfg, "LIST: User %d added %q", in.UserID, value)
	return c.ch.Send(ctx, in.ChatID, fmt.Sprintf(addedReply, games.Bold(value)), true)
}

func (c *commands) remove(ctx context.Context, in Inbound) error {
	value := title(in.Args)
	if value == "" {
		return c.ch.Send(ctx, in.ChatID, removeUsage, false)
	}

	empty := false
	err := c.list.Update(func(list []string) ([]string, error) {
		if len(list) == 0 {
			empty = true
			return nil, errNotInList
		}

		i := slices.Index(list, value)
		if i < 0 {
			return nil, errNotInList
		}
		return slices.Delete(list, i, i+1), nil
	})

	switch {
	case empty:
		return c.ch.Send(ctx, in.ChatID, emptyReply, false)
	case errors.Is(err, errNotInList):
		return c.ch.Send(ctx, in.ChatID, notFoundReply, false)
	case err != nil:
		return err
	}

	logf(c.cfg, "LIST: User %d removed %q", in.UserID, value)
	return c.ch.Send(ctx, in.ChatID, fmt.Sprintf(removedReply, games.Bold(value)), true)
}

func (c *commands) random(ctx context.Context, in Inbound) error {
	list, err := c.list.Load()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return c.ch.Send(ctx, in.ChatID, emptyReply, false)
	}

	value := list[rand.IntN(len(list))]
	return c.ch.Send(ctx, in.ChatID, fmt.Sprintf(randomReply, games.Bold(value)), true)
}

func (c *commands) clear(ctx context.Context, in Inbound) error {
	empty := false
	err := c.list.Update(func(list []string) ([]string, error) {
		empty = len(list) == 0
		return []string{}, nil
	})
	if err != nil {
		return err
	}

	if empty {
		return c.ch.Send(ctx, in.ChatID, alreadyEmpty, false)
	}

	logf(c.cfg, "LIST: User %d cleared the list", in.UserID)
	return c.ch.Send(ctx, in.ChatID, clearedReply, false)
}

func (c *commands) startGame(ctx context.Context, in Inbound) error {
	return c.games.StartGame(ctx, in.UserID, in.ChatID)
}

func (c *commands) turn(ctx context.Context, in Inbound) error {
	_, err := c.games.SubmitTurn(ctx, games.Turn{
		User:      in.UserID,
		Chat:      in.ChatID,
		MessageID: in.MessageID,
		Text:      in.Text,
	})
	return err
}
