package model

import "time"

// Transcript is one earnings-call transcript per (ticker, quarter).
// A record with a non-empty summary is treated as cached and is never
// refetched.
type Transcript struct {
	ID        string     `json:"id"`
	Ticker    string     `json:"ticker"`
	Quarter   string     `json:"quarter"` // "YYYYQ[1-4]"
	Text      string     `json:"-"`       // normalized raw transcript text
	Summary   string     `json:"summary"`
	FetchedAt *time.Time `json:"fetchedAt"`
}
