package models

import (
	"time"
)

// TokenInfo mirrors the redis hash behind a report-viewing token,
// including the usage stats validation updates on every hit.
type TokenInfo struct {
	Token           string    `json:"token"`
	RequestCount    int       `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_dttm_utc"`
	CreatedTime     time.Time `json:"created_dttm_utc"`
}
