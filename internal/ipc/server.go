package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"docsort/internal/daemon"
	"docsort/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	socketPath string
	logger     *slog.Logger
	listener   net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer binds the control socket and starts accepting connections. A
// stale socket file from a previous run is removed first.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Docsort", &service{daemon: d, ctx: ctx}); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	srv := &Server{
		socketPath: path,
		logger:     logging.NewComponentLogger(logger, "ipc"),
		listener:   listener,
		ctx:        serverCtx,
		cancel:     cancel,
	}

	srv.logger.Debug("IPC server listening", logging.String("socket", path))
	srv.wg.Add(1)
	go srv.acceptLoop(rpcServer)
	return srv, nil
}

func (s *Server) acceptLoop(rpcServer *rpc.Server) {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Warn("accept failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "ipc_accept_failed"),
				logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
			)
			continue
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
		}(conn)
	}
}

// Close stops accepting, waits for in-flight requests, and removes the
// socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()

	if err := os.RemoveAll(s.socketPath); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.socketPath),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"),
		)
	}
}

// service implements the RPC methods exposed to CLI clients.
type service struct {
	daemon *daemon.Daemon
	ctx    context.Context
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status, err := s.daemon.Status(s.ctx)
	if err != nil {
		return err
	}
	*resp = StatusResponse{
		Running:      status.Running,
		WatchRoot:    status.WatchRoot,
		JournalPath:  status.JournalPath,
		LockFilePath: status.LockFilePath,
		PID:          status.PID,
		Total:        status.Journal.Total,
		Completed:    status.Journal.Completed,
		Failed:       status.Journal.Failed,
	}
	return nil
}

func (s *service) History(req HistoryRequest, resp *HistoryResponse) error {
	records, err := s.daemon.History(s.ctx, req.Limit)
	if err != nil {
		return err
	}
	resp.Records = make([]HistoryRecord, 0, len(records))
	for _, record := range records {
		resp.Records = append(resp.Records, HistoryRecord{
			ID:           record.ID,
			SourcePath:   record.SourcePath,
			FinalPath:    record.FinalPath,
			ResolvedDate: record.ResolvedDate,
			DateSource:   record.DateSource,
			Status:       string(record.Status),
			ErrorMessage: record.ErrorMessage,
			CreatedAt:    record.CreatedAt.Format(time.RFC3339),
		})
	}
	return nil
}
