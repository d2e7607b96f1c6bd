package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-duel-service/internal/app"
	"trivia-duel-service/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// One struct per command; untyped maps never reach the core.

type startGamePayload struct {
	ThemeID string `json:"themeId"`
	UserID  string `json:"userId"`
}

type startGameResult struct {
	GameID   string          `json:"gameId"`
	Question domain.Question `json:"question"`
}

type submitAnswerPayload struct {
	GameID  string  `json:"gameId"`
	Answer  *string `json:"answer"`
	Elapsed float64 `json:"elapsedSeconds"`
}

type gameSummaryPayload struct {
	GameID string `json:"gameId"`
}

type leaderboardPayload struct {
	ThemeID string `json:"themeId"`
}

type leaderboardResult struct {
	ThemeID string                    `json:"themeId"`
	Scores  []domain.LeaderboardEntry `json:"scores"`
}

type themesResult struct {
	Themes []domain.Theme `json:"themes"`
}

type createRoomPayload struct {
	ThemeID string `json:"themeId"`
	UserID  string `json:"userId"`
}

type createRoomResult struct {
	RoomCode string `json:"roomCode"`
}

type roomPayload struct {
	RoomCode string `json:"roomCode"`
	UserID   string `json:"userId"`
}

type joinRoomResult struct {
	RoomCode string `json:"roomCode"`
}

// ServeWS upgrades HTTP requests to websockets and dispatches trivia
// commands to the game service, one typed response per request.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r.Context(), inbound, send, writerDone)
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, inbound inboundMessage, send chan<- outboundMessage, writerDone <-chan struct{}) {
	// A dead writer must not wedge the read loop on a full send buffer;
	// replies are dropped once it is gone.
	reply := func(typ string, payload any) {
		select {
		case send <- outboundMessage{Type: typ, Payload: payload}:
		case <-writerDone:
		}
	}
	fail := func(err error) {
		reply("error", errorPayload{Kind: errorKind(err), Message: err.Error()})
	}

	switch inbound.Type {
	case "get_themes":
		themes, err := h.service.Themes(ctx)
		if err != nil {
			fail(err)
			return
		}
		reply("themes", themesResult{Themes: themes})

	case "start_game":
		var payload startGamePayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		gameID, first, err := h.service.StartGame(ctx, payload.ThemeID, payload.UserID)
		if err != nil {
			fail(err)
			return
		}
		reply("game_started", startGameResult{GameID: gameID, Question: first})

	case "submit_answer":
		var payload submitAnswerPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		result, err := h.service.SubmitAnswer(ctx, payload.GameID, payload.Answer, payload.Elapsed)
		if err != nil {
			fail(err)
			return
		}
		reply("answer_result", result)

	case "get_game_summary":
		var payload gameSummaryPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		summary, err := h.service.GameSummary(ctx, payload.GameID)
		if err != nil {
			fail(err)
			return
		}
		reply("game_summary", summary)

	case "get_leaderboard":
		var payload leaderboardPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		scores, err := h.service.Leaderboard(ctx, payload.ThemeID)
		if err != nil {
			fail(err)
			return
		}
		reply("leaderboard", leaderboardResult{ThemeID: payload.ThemeID, Scores: scores})

	case "create_duel_room":
		var payload createRoomPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		code, err := h.service.CreateDuelRoom(ctx, payload.ThemeID, payload.UserID)
		if err != nil {
			fail(err)
			return
		}
		reply("room_created", createRoomResult{RoomCode: code})

	case "join_duel_room":
		var payload roomPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		if err := h.service.JoinDuelRoom(ctx, payload.RoomCode, payload.UserID); err != nil {
			fail(err)
			return
		}
		reply("room_joined", joinRoomResult{RoomCode: payload.RoomCode})

	case "start_duel":
		var payload roomPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		status, err := h.service.StartDuel(ctx, payload.RoomCode, payload.UserID)
		if err != nil {
			fail(err)
			return
		}
		reply("duel_started", status)

	case "poll_duel_room":
		var payload roomPayload
		if !decode(inbound.Payload, &payload, fail) {
			return
		}
		status, err := h.service.PollDuelRoom(ctx, payload.RoomCode, payload.UserID)
		if err != nil {
			fail(err)
			return
		}
		reply("room_status", status)

	default:
		fail(errUnknownCommand)
	}
}

var errUnknownCommand = errors.New("unsupported message type")

func decode(raw json.RawMessage, payload any, fail func(error)) bool {
	if err := json.Unmarshal(raw, payload); err != nil {
		fail(errors.New("invalid payload"))
		return false
	}
	return true
}

// errorKind maps core errors to stable identifiers clients can match on.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrThemeNotFound):
		return "theme_not_found"
	case errors.Is(err, domain.ErrInsufficientQuestions):
		return "insufficient_questions"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, domain.ErrSessionAlreadyFinished):
		return "session_already_finished"
	case errors.Is(err, domain.ErrSessionNotFinished):
		return "session_not_finished"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrRoomNotWaiting):
		return "room_not_waiting"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, domain.ErrNotHost):
		return "not_host"
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, errUnknownCommand):
		return "unknown_command"
	default:
		return "internal"
	}
}
