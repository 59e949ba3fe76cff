package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/movienight/games"
)

func TestGate_Authorized(t *testing.T) {
	gate := NewGate([]int64{1, 2})

	assert.True(t, gate.Authorized(1))
	assert.True(t, gate.Authorized(2))
	assert.False(t, gate.Authorized(3))
	assert.False(t, NewGate(nil).Authorized(1))
}

func TestRestricted_DeniesEveryEntryPoint(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.list.Save([]string{"Heat"}))

	inputs := []Inbound{
		{Command: "start"},
		{Command: "help"},
		{Command: "list"},
		{Command: "add", Args: "Alien"},
		{Command: "remove", Args: "Heat"},
		{Command: "random"},
		{Command: "clear"},
		{Command: "game"},
	}

	for _, in := range inputs {
		in.UserID = otherUser
		in.ChatID = testChat
		f.router.Handle(context.Background(), in)
	}

	msgs := f.ch.messages()
	require.Len(t, msgs, len(inputs))
	for _, m := range msgs {
		assert.Equal(t, deniedReply, m.Text)
	}

	list, err := f.list.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, list)
	assert.Equal(t, games.Idle, f.store.Session(otherUser).State)
}

func TestRestricted_PassesAllowedUsers(t *testing.T) {
	ch := &mockChannel{}
	called := false

	h := restricted(&Config{}, NewGate([]int64{allowedUser}), ch, func(context.Context, Inbound) error {
		called = true
		return nil
	})

	require.NoError(t, h(context.Background(), Inbound{UserID: allowedUser, ChatID: testChat}))
	assert.True(t, called)
	assert.Empty(t, ch.messages())
}

func TestRestrictedText_SilentInGroups(t *testing.T) {
	f := newRouterFixture(t)

	f.router.Handle(context.Background(), Inbound{UserID: otherUser, ChatID: testChat, Text: "3"})

	assert.Empty(t, f.ch.messages())
	assert.Equal(t, games.Idle, f.store.Session(otherUser).State)
}

func TestRestrictedText_DeniesInPrivateChat(t *testing.T) {
	f := newRouterFixture(t)

	f.router.Handle(context.Background(), Inbound{UserID: otherUser, ChatID: otherUser, Text: "3"})

	msgs := f.ch.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, deniedReply, msgs[0].Text)
	assert.Equal(t, otherUser, msgs[0].Chat)
}

func TestRestrictedText_PassesAllowedUsers(t *testing.T) {
	f := newRouterFixture(t)

	f.command("game", "")
	f.router.Handle(context.Background(), Inbound{UserID: allowedUser, ChatID: testChat, Text: "2"})

	assert.Equal(t, games.AwaitingEntries, f.store.Session(allowedUser).State)
}
