/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/movienight/games"
)

// AnnouncementMessage is what watchers of the live feed receive for every
// elimination and winner.
type AnnouncementMessage struct {
	Type      string `json:"type"` // "eliminated" or "winner"
	Title     string `json:"title"`
	Round     int    `json:"round"`
	Remaining int    `json:"remaining"`
}

// SimpleMessage is for generic notifications ("hello", etc.)
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan any
}

// liveFeed fans announcements out to every connected watcher. Watchers that
// fall behind are dropped so a game never waits on a browser.
type liveFeed struct {
	cfg *Config

	clients map[*liveClient]bool

	register  chan *liveClient
	unreg     chan *liveClient
	broadcast chan AnnouncementMessage
	done      chan struct{}
}

func newLiveFeed(cfg *Config) *liveFeed {
	return &liveFeed{
		cfg:       cfg,
		clients:   make(map[*liveClient]bool),
		register:  make(chan *liveClient),
		unreg:     make(chan *liveClient),
		broadcast: make(chan AnnouncementMessage, 64),
		done:      make(chan struct{}),
	}
}

func (f *liveFeed) run(ctx context.Context) {
	defer close(f.done)

	for {
		select {
		case <-ctx.Done():
			for c := range f.clients {
				delete(f.clients, c)
				close(c.send)
			}
			return

		case c := <-f.register:
			f.clients[c] = true
			logf(f.cfg, "SERVE: Live feed watcher connected (%d total)", len(f.clients))

			c.send <- SimpleMessage{
				Type:    "hello",
				Message: "movienight v" + releaseVersion,
			}

		case c := <-f.unreg:
			if _, ok := f.clients[c]; ok {
				delete(f.clients, c)
				close(c.send)
			}

		case msg := <-f.broadcast:
			for c := range f.clients {
				select {
				case c.send <- msg:
				default:
					delete(f.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// publish never blocks; announcements are dropped while the queue is full.
func (f *liveFeed) publish(_ int64, a games.Announcement) {
	msg := AnnouncementMessage{
		Type:      a.Kind.String(),
		Title:     a.Title,
		Round:     a.Round,
		Remaining: a.Remaining,
	}

	select {
	case f.broadcast <- msg:
	default:
		logf(f.cfg, "SERVE: Live feed queue full, dropped %s %q", msg.Type, msg.Title)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func serveLiveFeed(cfg *Config, f *liveFeed) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &liveClient{
			conn: conn,
			send: make(chan any, 16),
		}

		select {
		case f.register <- client:
		case <-f.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "SERVE: Live feed to %s", realIP(r))

		go client.writePump()
		client.readPump(f)
	}
}

// readPump only watches for the connection going away; watchers never talk back.
func (c *liveClient) readPump(f *liveFeed) {
	defer func() {
		select {
		case f.unreg <- c:
		case <-f.done:
		}
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *liveClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
