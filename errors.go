/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Seednode/movienight/games"
)

const failureReply = "Что-то пошло не так, попробуйте ещё раз."

var (
	ErrMissingToken = errors.New("a bot token is required (--token or MOVIENIGHT_TOKEN)")
	ErrNoUsers      = errors.New("at least one allowed user id is required (--users or MOVIENIGHT_USERS)")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// errorf is never gated by --verbose.
func errorf(format string, args ...any) {
	fmt.Printf("%s | ERROR: "+format+"\n", append([]any{time.Now().Format(logDate)}, args...)...)
}

// replyFailure logs err and tells the user their request did not go through.
func replyFailure(ctx context.Context, ch games.Channel, in Inbound, err error) {
	errorf("%s from user %d: %v", in.describe(), in.UserID, err)

	if errors.Is(err, context.Canceled) {
		return
	}

	if sendErr := ch.Send(ctx, in.ChatID, failureReply, false); sendErr != nil {
		errorf("reply to chat %d: %v", in.ChatID, sendErr)
	}
}
