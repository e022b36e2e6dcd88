package models

import "time"

// Todo is a single task row. IDs are assigned by the store and never reused;
// Created is set on insert and never changes.
type Todo struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Finished bool      `json:"finished"`
	Created  time.Time `json:"created"`
}

// TodoEvent is the message payload published after a successful mutation
// (created, updated, deleted, cleared).
type TodoEvent struct {
	Action     string    `json:"action"`
	Todo       *Todo     `json:"todo,omitempty"`
	Count      int64     `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
