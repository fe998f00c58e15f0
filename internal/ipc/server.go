package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// Handler executes control commands against the running sidebar.
type Handler interface {
	Status() StatusData
	Monitors() ([]MonitorInfo, error)
	SetMonitor(preference string) (StatusData, error)
	SetWidth(widthPx int) (StatusData, error)
	Redock() (StatusData, error)
	Reload() error
	SaveChecklist(reset bool) (SaveChecklistData, error)
}

// Executor runs fn on the goroutine that owns the handler's state and waits
// for it. eventloop.Loop.Call satisfies it.
type Executor func(ctx context.Context, fn func()) error

// ServerOptions configures a Server.
type ServerOptions struct {
	SocketPath string
	Handler    Handler
	// Exec defaults to running handlers on the connection goroutine.
	Exec Executor
	// RequestTimeout bounds how long a request waits for Exec.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	handler    Handler
	exec       Executor
	timeout    time.Duration
	logger     *slog.Logger

	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.SocketPath == "" {
		return nil, errors.New("socket path is required")
	}
	if opts.Handler == nil {
		return nil, errors.New("handler is required")
	}
	exec := opts.Exec
	if exec == nil {
		exec = func(_ context.Context, fn func()) error {
			fn()
			return nil
		}
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		socketPath: opts.SocketPath,
		handler:    opts.Handler,
		exec:       exec,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// SocketPath returns the listening path.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.dispatch(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal IPC response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("failed to send IPC response", "error", err)
	}
}

// dispatch runs the command through the executor so handler state is only
// touched from its owning goroutine.
func (s *Server) dispatch(req *Request) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var resp *Response
	if err := s.exec(ctx, func() { resp = s.handleCommand(req) }); err != nil {
		return NewErrorResponse(fmt.Sprintf("%s not executed: %v", req.Command, err))
	}
	return resp
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return okResponse(s.handler.Status())
	case CommandGetMonitors:
		monitors, err := s.handler.Monitors()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
		}
		return okResponse(MonitorsData{Monitors: monitors})
	case CommandSetMonitor:
		var p SetMonitorPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid set monitor payload: %v", err))
		}
		status, err := s.handler.SetMonitor(p.Preference)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to set monitor: %v", err))
		}
		return okResponse(status)
	case CommandSetWidth:
		var p SetWidthPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid set width payload: %v", err))
		}
		status, err := s.handler.SetWidth(p.WidthPx)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to set width: %v", err))
		}
		return okResponse(status)
	case CommandRedock:
		status, err := s.handler.Redock()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to redock: %v", err))
		}
		return okResponse(status)
	case CommandReload:
		if err := s.handler.Reload(); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		return okResponse(nil)
	case CommandSaveChecklist:
		var p SaveChecklistPayload
		if len(req.Payload) > 0 {
			if err := json.Unmarshal(req.Payload, &p); err != nil {
				return NewErrorResponse(fmt.Sprintf("Invalid save checklist payload: %v", err))
			}
		}
		saved, err := s.handler.SaveChecklist(p.Reset)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to save checklist: %v", err))
		}
		return okResponse(saved)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
