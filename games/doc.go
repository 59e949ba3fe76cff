// Package games implements the movie night elimination game.
//
// How to play
//   - A player sends /game and is asked how many movies take part
//   - The player answers with a positive number N
//   - The player then sends N titles, one message each
//   - Each title is acknowledged behind a spoiler and the raw message is deleted,
//     so the rest of the chat cannot see the picks yet
//   - Once the last title arrives, titles are knocked out one at a time at random,
//     with a short pause between announcements, until a single winner remains
//
// Implementation details:
//   - One session per user, in memory only; restarting the game discards the old one
//   - Sessions of different users are independent and never share entries
//   - Candidates come only from the titles entered during the game, never from the
//     shared watch list
package games
