package domain

// QuestionType distinguishes how a question is presented and judged.
type QuestionType string

const (
	// QuestionOpen is a free-text question judged with loose matching.
	QuestionOpen QuestionType = "open"
	// QuestionDual offers two choices.
	QuestionDual QuestionType = "dual"
	// QuestionQuad offers up to four choices.
	QuestionQuad QuestionType = "quad"
)

// Theme is a named category grouping a question pool.
type Theme struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Question is an immutable record sourced read-only from the question bank.
// Choices holds the answer plus up to three distractors for DUAL/QUAD
// questions and is empty for OPEN questions.
type Question struct {
	ID      string       `json:"id"`
	ThemeID string       `json:"themeId"`
	Type    QuestionType `json:"type"`
	Points  int          `json:"points"`
	Text    string       `json:"text"`
	Answer  string       `json:"answer"`
	Choices []string     `json:"choices,omitempty"`
}

// AnswerRecord is one immutable entry of a game's answer history.
// Submitted is nil when the player timed out or skipped.
type AnswerRecord struct {
	QuestionText  string  `json:"question"`
	Submitted     *string `json:"userAnswer"`
	CorrectAnswer string  `json:"correctAnswer"`
	Correct       bool    `json:"correct"`
	Awarded       int     `json:"awarded"`
	Elapsed       float64 `json:"elapsedSeconds"`
}

// SubmitResult is the outcome of judging one answer.
type SubmitResult struct {
	Correct       bool      `json:"correct"`
	CorrectAnswer string    `json:"correctAnswer"`
	Awarded       int       `json:"awarded"`
	NextQuestion  *Question `json:"nextQuestion"`
	Finished      bool      `json:"finished"`
}

// GameSummary is the terminal view of a finished playthrough.
type GameSummary struct {
	Score          int            `json:"score"`
	TotalElapsed   float64        `json:"totalElapsed"`
	AverageElapsed float64        `json:"averageElapsed"`
	History        []AnswerRecord `json:"history"`
}

// RoomState is the lifecycle state of a duel room. Transitions are
// monotonic: waiting -> playing -> finished, never backward.
type RoomState string

const (
	RoomWaiting  RoomState = "waiting"
	RoomPlaying  RoomState = "playing"
	RoomFinished RoomState = "finished"
)

// RoomPlayer is one member of a duel room roster.
type RoomPlayer struct {
	UserID string `json:"userId"`
	Host   bool   `json:"isHost"`
}

// RoomStatus is the idempotent poll view of a duel room. GameID and
// FirstQuestion are set only once the room is playing.
type RoomStatus struct {
	Code          string       `json:"roomCode"`
	ThemeID       string       `json:"themeId"`
	State         RoomState    `json:"state"`
	Players       []RoomPlayer `json:"players"`
	IsHost        bool         `json:"isHost"`
	GameID        string       `json:"gameId,omitempty"`
	FirstQuestion *Question    `json:"firstQuestion,omitempty"`
}

// ScoreEntry is the persisted outcome of one finished game.
type ScoreEntry struct {
	UserID         string  `json:"userId"`
	ThemeID        string  `json:"themeId"`
	Score          int     `json:"score"`
	AverageElapsed float64 `json:"averageElapsed"`
}

// LeaderboardEntry is one row of a theme's score ranking.
type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}
