package domain

import "errors"

var (
	// ErrThemeNotFound indicates the theme does not exist in the question bank.
	ErrThemeNotFound = errors.New("theme not found")
	// ErrInsufficientQuestions is returned when a theme cannot supply a single question.
	ErrInsufficientQuestions = errors.New("not enough questions available")
	// ErrSessionNotFound is returned when a game id is unknown to the registry.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionAlreadyFinished is returned when answering past the last question.
	ErrSessionAlreadyFinished = errors.New("game session already finished")
	// ErrSessionNotFinished is returned when summarizing a game with no answers yet.
	ErrSessionNotFinished = errors.New("game session has no answers to summarize")
	// ErrRoomNotFound is returned when a room code is unknown to the registry.
	ErrRoomNotFound = errors.New("duel room not found")
	// ErrRoomNotWaiting is returned when joining a room that is no longer open.
	ErrRoomNotWaiting = errors.New("duel room no longer accepts players")
	// ErrRoomFull is returned when joining a room at capacity.
	ErrRoomFull = errors.New("duel room is full")
	// ErrAlreadyJoined is returned when a user is already in the room roster.
	ErrAlreadyJoined = errors.New("already joined this duel room")
	// ErrNotHost is returned when a non-host tries to start the duel.
	ErrNotHost = errors.New("only the host can start the duel")
	// ErrNotEnoughPlayers is returned when starting a duel with fewer than two players.
	ErrNotEnoughPlayers = errors.New("at least two players are required to start")
)
