package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/desk"
	"github.com/1broseidon/deskgrid/internal/platform"
	"github.com/1broseidon/deskgrid/internal/runtimepath"
)

// ErrDaemonRunning is returned by Start when the socket already has a live
// listener.
var ErrDaemonRunning = errors.New("another deskgrid daemon is listening")

// connTimeout bounds how long one request/response exchange may take.
const connTimeout = 10 * time.Second

// Desk is the controller surface the server exposes.
type Desk interface {
	Arrange() error
	Restore() error
	Toggle() error
	Dismiss(windowID platform.WindowID) error
	Obscured() ([]platform.Window, error)
	Plan(profile string) (*desk.Plan, error)
	SetProfile(name string) error
	ActiveProfile() string
	Status() desk.Status
	Reload(cfg *config.Config) error
}

// ConfigLoader produces a freshly loaded configuration for RELOAD.
type ConfigLoader func() (*config.Config, error)

// handlerFunc serves one command. The returned value becomes the response
// data; a nil value sends a bare OK.
type handlerFunc func(payload json.RawMessage) (any, error)

// Server answers newline-delimited JSON requests on a unix socket.
type Server struct {
	socketPath string
	listener   net.Listener
	desk       Desk
	loadConfig ConfigLoader
	startTime  time.Time
	reloadChan chan struct{}
	handlers   map[CommandType]handlerFunc

	cfgMu sync.RWMutex
	cfg   *config.Config

	closing atomic.Bool
	wg      sync.WaitGroup
}

// NewServer resolves the socket path. The socket is created by Start.
func NewServer(cfg *config.Config, d Desk, loadConfig ConfigLoader, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if loadConfig == nil {
		loadConfig = config.Load
	}

	s := &Server{
		socketPath: socketPath,
		cfg:        cfg,
		desk:       d,
		loadConfig: loadConfig,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
	s.handlers = map[CommandType]handlerFunc{
		CommandReload:       s.reload,
		CommandGetStatus:    s.status,
		CommandArrange:      action("arrange", d.Arrange),
		CommandRestore:      action("restore", d.Restore),
		CommandToggle:       action("toggle", d.Toggle),
		CommandDismiss:      s.dismiss,
		CommandObscured:     s.obscured,
		CommandPlan:         s.plan,
		CommandListProfiles: s.listProfiles,
		CommandSetProfile:   s.setProfile,
	}
	return s, nil
}

// Start listens on the socket and serves requests in the background.
func (s *Server) Start() error {
	if err := clearStaleSocket(s.socketPath); err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener

	log.Printf("IPC server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.serve()
	return nil
}

// Stop closes the listener and waits for in-flight requests. It is safe to
// call more than once.
func (s *Server) Stop() {
	if !s.closing.CompareAndSwap(false, true) {
		return
	}
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}

// clearStaleSocket removes a socket left behind by a daemon that died. A
// socket that still accepts connections belongs to a live daemon.
func clearStaleSocket(path string) error {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if conn, err := net.DialTimeout("unix", path, 500*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("%w on %s", ErrDaemonRunning, path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		log.Printf("IPC read error: %v", err)
		return
	}

	data, err := s.dispatch(line).Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) dispatch(line []byte) *Response {
	req, err := ParseRequest(line)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	}
	h, ok := s.handlers[req.Command]
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	data, err := h(req.Payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// decodePayload unmarshals an optional payload; an absent one yields the
// zero value.
func decodePayload[T any](payload json.RawMessage, what string) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("Invalid %s payload: %v", what, err)
	}
	return v, nil
}

func action(name string, run func() error) handlerFunc {
	return func(json.RawMessage) (any, error) {
		log.Printf("IPC: %s", name)
		if err := run(); err != nil {
			return nil, fmt.Errorf("Failed to %s: %v", name, err)
		}
		return nil, nil
	}
}

func (s *Server) reload(json.RawMessage) (any, error) {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("Failed to reload config: %v", err)
	}
	if err := s.desk.Reload(newCfg); err != nil {
		return nil, fmt.Errorf("Failed to apply config: %v", err)
	}
	s.UpdateConfig(newCfg)

	// The daemon loop picks up logger and hotkey changes.
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")
	return nil, nil
}

func (s *Server) status(json.RawMessage) (any, error) {
	st := s.desk.Status()
	return StatusData{
		ActiveProfile: st.ActiveProfile,
		Overviews:     st.Overviews,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}, nil
}

func (s *Server) dismiss(payload json.RawMessage) (any, error) {
	req, err := decodePayload[DismissPayload](payload, "dismiss")
	if err != nil {
		return nil, err
	}
	if req.WindowID == 0 {
		return nil, errors.New("window_id is required")
	}
	if err := s.desk.Dismiss(platform.WindowID(req.WindowID)); err != nil {
		return nil, fmt.Errorf("Failed to dismiss: %v", err)
	}
	return nil, nil
}

func (s *Server) obscured(json.RawMessage) (any, error) {
	windows, err := s.desk.Obscured()
	if err != nil {
		return nil, fmt.Errorf("Failed to find obscured windows: %v", err)
	}

	data := ObscuredData{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		data.Windows = append(data.Windows, WindowInfo{
			ID:     uint32(w.ID),
			Class:  w.Class,
			Title:  w.Title,
			Bounds: w.Bounds,
		})
	}
	return data, nil
}

func (s *Server) plan(payload json.RawMessage) (any, error) {
	req, err := decodePayload[ProfilePayload](payload, "plan")
	if err != nil {
		return nil, err
	}
	plan, err := s.desk.Plan(req.Profile)
	if err != nil {
		return nil, fmt.Errorf("Failed to plan: %v", err)
	}
	return plan, nil
}

func (s *Server) listProfiles(json.RawMessage) (any, error) {
	cfg := s.GetConfig()
	return ProfilesData{
		Profiles:       cfg.ProfileNames(),
		DefaultProfile: cfg.DefaultProfile,
		ActiveProfile:  s.desk.ActiveProfile(),
	}, nil
}

func (s *Server) setProfile(payload json.RawMessage) (any, error) {
	req, err := decodePayload[ProfilePayload](payload, "set profile")
	if err != nil {
		return nil, err
	}
	if req.Profile == "" {
		return nil, errors.New("profile is required")
	}
	if err := s.desk.SetProfile(req.Profile); err != nil {
		return nil, fmt.Errorf("Failed to set profile: %v", err)
	}
	return nil, nil
}
