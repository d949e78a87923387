package api

import "github.com/samcharles93/profinfo/internal/report"

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

type ProfileEntry struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
}

type CreateSessionRequest struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	ID       string         `json:"id"`
	Object   string         `json:"object"`
	Name     string         `json:"name"`
	LoadedAt int64          `json:"loaded_at"`
	Cached   bool           `json:"cached"`
	Summary  report.Summary `json:"summary"`
}

type TableResponse struct {
	SessionID string   `json:"session_id"`
	Table     string   `json:"table"`
	Uncounted uint32   `json:"uncounted"`
	Counts    []uint32 `json:"counts"`
}

type ValuesResponse struct {
	SessionID string    `json:"session_id"`
	Values    [][]int32 `json:"values"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
