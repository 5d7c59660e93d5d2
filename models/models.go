// models/models.go
package models

import (
	"time"
)

// MatchStateDoc is the full match state as sent to clients. Board cells and
// the turn/winner fields use 0/1/2 for empty/X/O.
type MatchStateDoc struct {
	MatchID  string          `json:"matchId"`
	Board    []int           `json:"board"`
	Turn     int             `json:"turn"`
	Finished bool            `json:"finished"`
	Winner   int             `json:"winner"`
	Players  MatchPlayersDoc `json:"players"`
}

type MatchPlayersDoc struct {
	X MatchPlayerDoc `json:"x"`
	O MatchPlayerDoc `json:"o"`
}

type MatchPlayerDoc struct {
	Name string `json:"name"`
}

// MatchRecord is the archive row written for a finished match. Winner is
// 0/1/2 for draw/X/O.
type MatchRecord struct {
	MatchID   string    `json:"match_id"`
	XName     string    `json:"x_name"`
	OName     string    `json:"o_name"`
	Winner    int       `json:"winner"`
	Moves     int       `json:"moves"`
	Duration  int       `json:"duration"` // seconds
	CreatedAt time.Time `json:"created_at"`
}

// PlayerRecord is the aggregated win/loss/draw tally for a display name.
type PlayerRecord struct {
	Name   string `json:"name"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}
