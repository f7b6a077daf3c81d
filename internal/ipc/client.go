package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskgrid/internal/desk"
	"github.com/1broseidon/deskgrid/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient targets the socket runtimepath resolves. When that fails the
// error surfaces on the first request as a dial error.
func NewClient() *Client {
	socketPath, _ := runtimepath.SocketPath()
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

// sendRequest performs one request/response exchange on a fresh
// connection.
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Encode terminates the request with the newline the server reads up to.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) command(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

func decodeData[T any](resp *Response, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return &out, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.command(CommandReload, nil)
	return err
}

// Arrange shows an overview of the active display.
func (c *Client) Arrange() error {
	_, err := c.command(CommandArrange, nil)
	return err
}

// Restore ends every overview.
func (c *Client) Restore() error {
	_, err := c.command(CommandRestore, nil)
	return err
}

// Toggle arranges or restores depending on the daemon's state.
func (c *Client) Toggle() error {
	_, err := c.command(CommandToggle, nil)
	return err
}

// Dismiss removes a window from its overview.
func (c *Client) Dismiss(windowID uint32) error {
	_, err := c.command(CommandDismiss, DismissPayload{WindowID: windowID})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.command(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[StatusData](resp, "status")
}

// Obscured lists fully covered windows on the active display.
func (c *Client) Obscured() (*ObscuredData, error) {
	resp, err := c.command(CommandObscured, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[ObscuredData](resp, "obscured")
}

// Plan computes a layout for the active display without applying it.
func (c *Client) Plan(profile string) (*desk.Plan, error) {
	resp, err := c.command(CommandPlan, ProfilePayload{Profile: profile})
	if err != nil {
		return nil, err
	}
	return decodeData[desk.Plan](resp, "plan")
}

// ListProfiles retrieves available profiles and current selection.
func (c *Client) ListProfiles() (*ProfilesData, error) {
	resp, err := c.command(CommandListProfiles, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[ProfilesData](resp, "profiles")
}

// SetProfile selects the daemon's active profile.
func (c *Client) SetProfile(name string) error {
	_, err := c.command(CommandSetProfile, ProfilePayload{Profile: name})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
