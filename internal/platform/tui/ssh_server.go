package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/charmbracelet/wish/recover"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.chromatic/host_key.
	HostKeyPath string

	IdleTimeout time.Duration

	// MaxSessions caps concurrent players. Zero means no limit.
	MaxSessions int

	// Play configures every session's puzzle screen.
	Play PlayOptions
}

// SSHServer hosts the puzzle menu over SSH. A session may name a puzzle id
// as its command (ssh -t host 3) to open that puzzle directly.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	levels []puzzles.Level
	store  *storage.Store
	logger *log.Logger

	mu    sync.Mutex
	open  int
	users map[string]int
}

// NewSSHServer creates a new SSH server. store may be nil, in which case
// progress is not saved.
func NewSSHServer(cfg SSHServerConfig, levels []puzzles.Level, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config: cfg,
		levels: levels,
		store:  store,
		logger: logger.WithPrefix("chromatic-ssh"),
		users:  make(map[string]int),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".chromatic", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(srv.middleware()...),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// middleware returns the session chain, innermost first: a session is
// logged, given a seat, has its command checked, must hold a PTY and then
// runs the game with panics recovered.
func (s *SSHServer) middleware() []wish.Middleware {
	return []wish.Middleware{
		recover.MiddlewareWithLogger(s.logger, bubbletea.Middleware(s.teaHandler)),
		activeterm.Middleware(),
		s.commandMiddleware,
		s.seatMiddleware,
		logging.StructuredMiddlewareWithLogger(s.logger, log.InfoLevel),
	}
}

// seatMiddleware turns sessions away once MaxSessions players are connected.
func (s *SSHServer) seatMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		user := sess.User()
		mine, ok := s.acquire(user)
		if !ok {
			s.logger.Warn("server full", "user", user, "max", s.config.MaxSessions)
			wish.Fatalln(sess, "Chromatic is full, try again later.")
			return
		}
		defer s.release(user)

		s.logger.Debug("seat taken", "user", user, "user_sessions", mine)
		next(sess)
	}
}

// commandMiddleware rejects a session whose command is not a known puzzle id.
func (s *SSHServer) commandMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if _, err := s.levelFor(sess.Command()); err != nil {
			wish.Fatalln(sess, err.Error())
			return
		}
		next(sess)
	}
}

func (s *SSHServer) acquire(user string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.MaxSessions > 0 && s.open >= s.config.MaxSessions {
		return 0, false
	}
	s.open++
	s.users[user]++
	return s.users[user], true
}

func (s *SSHServer) release(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open--
	if s.users[user]--; s.users[user] <= 0 {
		delete(s.users, user)
	}
}

// Sessions returns the number of connected players.
func (s *SSHServer) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// levelFor resolves a session command. An empty command opens the menu and
// returns nil.
func (s *SSHServer) levelFor(cmd []string) (*puzzles.Level, error) {
	if len(cmd) == 0 {
		return nil, nil
	}
	if len(cmd) > 1 {
		return nil, errors.New("usage: ssh -t <host> [puzzle id]")
	}

	id, err := strconv.Atoi(cmd[0])
	if err != nil {
		return nil, fmt.Errorf("invalid puzzle id %q", cmd[0])
	}
	for i := range s.levels {
		if s.levels[i].ID() == id {
			return &s.levels[i], nil
		}
	}
	return nil, fmt.Errorf("puzzle %d: %w", id, puzzles.ErrNotFound)
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	play := s.config.Play
	play.Session.Logger = s.logger.With("user", sess.User())

	// commandMiddleware has already rejected unknown ids.
	level, _ := s.levelFor(sess.Command())
	var model AppModel
	if level != nil {
		play.Session.Logger.Info("opening puzzle", "puzzle", level.ID())
		model = NewAppModelAt(s.levels, s.store, play, pty.Window.Width, pty.Window.Height, *level)
	} else {
		model = NewAppModel(s.levels, s.store, play, pty.Window.Width, pty.Window.Height)
	}

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// ListenAndServe serves until ctx is canceled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("starting SSH server", "address", s.config.Address, "puzzles", len(s.levels), "max_sessions", s.config.MaxSessions)
		errs <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down...", "sessions", s.Sessions())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
