package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskgrid/internal/desk"
	"github.com/1broseidon/deskgrid/internal/geom"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandArrange      CommandType = "ARRANGE"
	CommandRestore      CommandType = "RESTORE"
	CommandToggle       CommandType = "TOGGLE"
	CommandDismiss      CommandType = "DISMISS"
	CommandObscured     CommandType = "OBSCURED"
	CommandPlan         CommandType = "PLAN"
	CommandListProfiles CommandType = "LIST_PROFILES"
	CommandSetProfile   CommandType = "SET_PROFILE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Err turns an ERROR response into a Go error.
func (r *Response) Err() error {
	if r.Status == StatusError {
		return fmt.Errorf("daemon error: %s", r.Error)
	}
	if r.Status != StatusOK {
		return fmt.Errorf("unexpected response status %q", r.Status)
	}
	return nil
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveProfile string                `json:"active_profile"`
	Overviews     []desk.OverviewStatus `json:"overviews"`
	UptimeSeconds int64                 `json:"uptime_seconds"`
	DaemonRunning bool                  `json:"daemon_running"`
}

// DismissPayload is the payload for DISMISS.
type DismissPayload struct {
	WindowID uint32 `json:"window_id"`
}

// ProfilePayload is the payload for PLAN and SET_PROFILE.
type ProfilePayload struct {
	Profile string `json:"profile"`
}

// WindowInfo describes one window in an OBSCURED reply.
type WindowInfo struct {
	ID     uint32    `json:"id"`
	Class  string    `json:"class"`
	Title  string    `json:"title"`
	Bounds geom.Rect `json:"bounds"`
}

// ObscuredData represents the data returned by OBSCURED
type ObscuredData struct {
	Windows []WindowInfo `json:"windows"`
}

// ProfilesData represents the data returned by LIST_PROFILES
type ProfilesData struct {
	Profiles       []string `json:"profiles"`
	DefaultProfile string   `json:"default_profile"`
	ActiveProfile  string   `json:"active_profile"`
}

// NewOKResponse wraps data, which may be nil, in an OK response.
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: StatusOK}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		resp.Data = raw
	}
	return resp, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: StatusError, Error: errMsg}
}

// ParseRequest decodes one request line.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("command is required")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
