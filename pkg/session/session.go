// Package session manages interactive device command sessions.
//
// A Manager opens at most one connected session per device and user, runs
// every command through the allow, deny and dangerous rules before it is
// executed, and keeps a redacted transcript of the exchange. Sessions that
// stay idle longer than their timeout are closed by PurgeIdle, which
// RunSweeper calls on a ticker.
//
// Status only moves from connected to closed. Closing twice is harmless:
// the second close appends another system line and changes nothing else.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = apperr.NotFound("Session not found")

// DefaultIdleTimeout applies when a session is opened without one.
const DefaultIdleTimeout = 600 * time.Second

type AuthType string

const (
	AuthPassword AuthType = "password"
	AuthKey      AuthType = "key"
)

type Status string

const (
	StatusConnected Status = "connected"
	StatusClosed    Status = "closed"
)

// Session is one interactive device session.
type Session struct {
	ID             string    `json:"id"`
	DeviceID       string    `json:"deviceId"`
	DeviceName     string    `json:"deviceName"`
	Host           string    `json:"host"`
	Port           int       `json:"port"`
	User           string    `json:"user"`
	AuthType       AuthType  `json:"authType"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActiveAt   time.Time `json:"lastActiveAt"`
	IdleTimeoutSec int       `json:"idleTimeoutSec"`
}

// Connected reports whether the session still accepts commands.
func (s Session) Connected() bool {
	return s.Status == StatusConnected
}

// IdleAt reports whether the session has been idle past its timeout at now.
func (s Session) IdleAt(now time.Time) bool {
	return now.Sub(s.LastActiveAt) > time.Duration(s.IdleTimeoutSec)*time.Second
}

// LogType classifies a transcript line.
type LogType string

const (
	LogInput  LogType = "input"
	LogOutput LogType = "output"
	LogSystem LogType = "system"
	LogError  LogType = "error"
)

// LogEvent is one transcript line. Input and output messages are redacted
// before they are stored.
type LogEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
}

// timestampLayout matches the millisecond UTC form used across exports.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// String renders the event as "[timestamp] TYPE: message".
func (e LogEvent) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.Timestamp.UTC().Format(timestampLayout), strings.ToUpper(string(e.Type)), e.Message)
}

// OpenInput describes the session a caller wants.
type OpenInput struct {
	DeviceID       string   `json:"deviceId"`
	DeviceName     string   `json:"deviceName"`
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	User           string   `json:"user"`
	AuthType       AuthType `json:"authType"`
	IdleTimeoutSec int      `json:"idleTimeoutSec,omitempty"`
}

func (in OpenInput) Validate() error {
	if in.DeviceID == "" || in.User == "" {
		return apperr.Validation("Device ID and user are required")
	}
	switch in.AuthType {
	case "", AuthPassword, AuthKey:
	default:
		return apperr.Validation("Unsupported auth type: " + string(in.AuthType))
	}
	if in.IdleTimeoutSec < 0 {
		return apperr.Validation("Idle timeout must not be negative")
	}
	return nil
}

// Result is the outcome of one command.
type Result struct {
	Output  []string `json:"output"`
	Warning string   `json:"warning,omitempty"`
	Blocked bool     `json:"blocked,omitempty"`
}
