// Package types defines the error taxonomy and invocation records shared by
// the credential resolver, the API client and the tool registry.
package types

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ──────────────────────────────────────────────────────────────────────────────
// Limits
// ──────────────────────────────────────────────────────────────────────────────

const (
	MaxToolNameBytes = 128
	MaxErrorBytes    = 2 * 1024 // 2 KB, truncated before persisting
)

// ──────────────────────────────────────────────────────────────────────────────
// Invocation is one tool call as observed by the server.
// ──────────────────────────────────────────────────────────────────────────────

type InvocationStatus string

const (
	StatusOK    InvocationStatus = "ok"
	StatusError InvocationStatus = "error"
)

type Invocation struct {
	ID         string           `json:"id"`
	Tool       string           `json:"tool"`
	Client     string           `json:"client,omitempty"` // authenticated HTTP client, empty on stdio
	Status     InvocationStatus `json:"status"`
	ErrorKind  Kind             `json:"error_kind,omitempty"`
	Error      string           `json:"error,omitempty"`
	StatusCode int              `json:"status_code,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
}

// Normalize trims the tool name, bounds the error text and defaults the
// start time.
func (i *Invocation) Normalize() {
	i.Tool = strings.TrimSpace(i.Tool)
	i.Tool = Truncate(i.Tool, MaxToolNameBytes)
	i.Client = Truncate(strings.TrimSpace(i.Client), MaxToolNameBytes)
	i.Error = Truncate(i.Error, MaxErrorBytes)
	if i.Status == "" {
		i.Status = StatusOK
		if i.Error != "" {
			i.Status = StatusError
		}
	}
	if i.StartedAt.IsZero() {
		i.StartedAt = time.Now().UTC()
	}
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Failed reports whether the invocation surfaced an error to the caller.
func (i *Invocation) Failed() bool {
	return i.Status == StatusError
}
