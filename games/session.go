/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

type State int

const (
	Idle State = iota
	AwaitingCount
	AwaitingEntries
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingCount:
		return "awaiting_count"
	case AwaitingEntries:
		return "awaiting_entries"
	default:
		return "unknown"
	}
}

const (
	countPrompt   = "Сколько фильмов участвует? Отправьте число."
	countRetry    = "Пожалуйста, отправьте целое положительное число."
	entriesPrompt = "Присылайте фильмы по одному сообщению, всего %d."
	entryAck      = "Добавлен %s. Осталось: %d"
	eliminatedMsg = "Выбывает %s"
	winnerMsg     = "Смотрим %s!"
)

// entriesPrealloc caps the up-front allocation; the count itself is unbounded.
const entriesPrealloc = 64

// Session tracks one user's progress through a game.
type Session struct {
	State   State
	Target  int
	Entries []string
}

// Turn is one inbound text message from a user.
type Turn struct {
	User      int64
	Chat      int64
	MessageID int
	Text      string
}

// Observer is told about every announcement, after it was sent to the chat.
type Observer func(chat int64, a Announcement)

type Option func(*Store)

// WithObserver registers fn for every announcement of every game.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, fn)
	}
}

// WithLogger routes diagnostic output, such as failed deletes, to fn.
func WithLogger(fn func(format string, args ...any)) Option {
	return func(s *Store) {
		s.logf = fn
	}
}

// Store holds one session per user for the lifetime of the process.
type Store struct {
	engine    *Engine
	ch        Channel
	observers []Observer
	logf      func(format string, args ...any)

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore(engine *Engine, ch Channel, opts ...Option) *Store {
	s := &Store{
		engine:   engine,
		ch:       ch,
		logf:     func(string, ...any) {},
		sessions: make(map[int64]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns a copy of the user's session. Unknown users are Idle.
func (s *Store) Session(user int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[user]
	if !ok {
		return Session{State: Idle}
	}

	out := *sess
	out.Entries = append([]string(nil), sess.Entries...)
	return out
}

// StartGame discards whatever the user had in progress and asks for a count.
func (s *Store) StartGame(ctx context.Context, user, chat int64) error {
	s.mu.Lock()
	s.sessions[user] = &Session{State: AwaitingCount}
	s.mu.Unlock()

	s.logf("GAMES: User %d started a game in chat %d", user, chat)

	return s.ch.Send(ctx, chat, countPrompt, false)
}

// SubmitTurn feeds text into the user's game. It reports false when the user
// has no game in progress and the text was left alone.
func (s *Store) SubmitTurn(ctx context.Context, t Turn) (bool, error) {
	s.mu.Lock()
	sess, ok := s.sessions[t.User]
	if !ok || sess.State == Idle {
		s.mu.Unlock()
		return false, nil
	}

	switch sess.State {
	case AwaitingCount:
		n, err := strconv.Atoi(strings.TrimSpace(t.Text))
		if err != nil || n < 1 {
			s.mu.Unlock()
			return true, s.ch.Send(ctx, t.Chat, countRetry, false)
		}

		sess.Target = n
		sess.Entries = make([]string, 0, min(n, entriesPrealloc))
		sess.State = AwaitingEntries
		s.mu.Unlock()

		s.logf("GAMES: User %d is collecting %d titles", t.User, n)

		return true, s.ch.Send(ctx, t.Chat, fmt.Sprintf(entriesPrompt, n), false)

	case AwaitingEntries:
		entry := strings.TrimSpace(t.Text)
		sess.Entries = append(sess.Entries, entry)
		remaining := sess.Target - len(sess.Entries)

		if remaining > 0 {
			s.mu.Unlock()

			err := s.ch.Send(ctx, t.Chat, fmt.Sprintf(entryAck, Spoiler(entry), remaining), true)
			s.deleteTurn(ctx, t)

			return true, err
		}

		entries := sess.Entries
		delete(s.sessions, t.User)
		s.mu.Unlock()

		s.deleteTurn(ctx, t)

		return true, s.eliminate(ctx, t, entries)
	}

	s.mu.Unlock()
	return false, nil
}

func (s *Store) deleteTurn(ctx context.Context, t Turn) {
	if err := s.ch.Delete(ctx, t.Chat, t.MessageID); err != nil {
		s.logf("GAMES: Could not delete message %d in chat %d: %v", t.MessageID, t.Chat, err)
	}
}

func (s *Store) eliminate(ctx context.Context, t Turn, entries []string) error {
	s.logf("GAMES: User %d starts eliminating %d titles", t.User, len(entries))

	winner, err := s.engine.Run(ctx, entries, func(ctx context.Context, a Announcement) error {
		text := fmt.Sprintf(eliminatedMsg, Bold(a.Title))
		if a.Kind == Winner {
			text = fmt.Sprintf(winnerMsg, Bold(a.Title))
		}

		if err := s.ch.Send(ctx, t.Chat, text, true); err != nil {
			return err
		}

		for _, fn := range s.observers {
			fn(t.Chat, a)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("run elimination for user %d: %w", t.User, err)
	}

	s.logf("GAMES: User %d picked %q", t.User, winner)
	return nil
}
