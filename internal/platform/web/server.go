// Package web streams simulations to browser spectators over websockets.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

//go:embed static
var static embed.FS

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = 5 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 4 * pingPeriod
)

var upgrader = websocket.Upgrader{}

// errFinished ends a stream once the final message is written.
var errFinished = errors.New("stream finished")

// ErrPongDeadlineExceeded is returned when a spectator stops answering pings.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

// Config holds configuration for the spectator server.
type Config struct {
	Address      string
	StepDuration time.Duration
	MaxSteps     int
}

// PuzzleInfo is one entry of the /puzzles listing.
type PuzzleInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Size        int    `json:"size"`
	HasSolution bool   `json:"has_solution"`
}

// Server serves the spectator page and one simulation per websocket.
type Server struct {
	cfg    Config
	levels []puzzles.Level
	byID   map[int]puzzles.Level
	logger *log.Logger
	router *mux.Router
}

// NewServer creates a spectator server over the given puzzles.
func NewServer(cfg Config, levels []puzzles.Level, logger *log.Logger) *Server {
	if cfg.StepDuration <= 0 {
		cfg.StepDuration = core.DefaultStepDuration
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 500
	}

	s := &Server{
		cfg:    cfg,
		levels: levels,
		byID:   make(map[int]puzzles.Level, len(levels)),
		logger: logger.WithPrefix("chromatic-web"),
		router: mux.NewRouter(),
	}
	for _, lvl := range levels {
		s.byID[lvl.ID()] = lvl
	}

	sub, _ := fs.Sub(static, "static")
	s.router.HandleFunc("/puzzles", s.servePuzzles).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/{id:[0-9]+}", s.serveWebsocket).Methods(http.MethodGet)
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(sub))).Methods(http.MethodGet)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("starting spectator server", "address", s.cfg.Address)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) servePuzzles(w http.ResponseWriter, r *http.Request) {
	out := make([]PuzzleInfo, 0, len(s.levels))
	for _, lvl := range s.levels {
		out = append(out, PuzzleInfo{
			ID:          lvl.ID(),
			Name:        lvl.Name(),
			Size:        lvl.Puzzle.Width(),
			HasSolution: lvl.HasSolution(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Warn("cannot write puzzle list", "error", err)
	}
}

// boardFor builds the board to simulate: the share code in the query if
// present, else the reference solution.
func (s *Server) boardFor(r *http.Request) (puzzles.Level, *core.Board, int, error) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	lvl, ok := s.byID[id]
	if !ok {
		return lvl, nil, http.StatusNotFound, fmt.Errorf("puzzle %d: %w", id, puzzles.ErrNotFound)
	}

	if code := r.URL.Query().Get("code"); code != "" {
		save, err := core.ParseCode(code)
		if err != nil {
			return lvl, nil, http.StatusBadRequest, err
		}
		if save.PuzzleID != id {
			return lvl, nil, http.StatusBadRequest, fmt.Errorf("code is for puzzle %d", save.PuzzleID)
		}
		board := core.NewBoard(lvl.Puzzle.Width())
		if err := core.RestoreState(save, lvl.Puzzle, board); err != nil {
			return lvl, nil, http.StatusBadRequest, err
		}
		return lvl, board, http.StatusOK, nil
	}

	if !lvl.HasSolution() {
		return lvl, nil, http.StatusBadRequest, errors.New("puzzle has no solution; pass ?code=")
	}
	return lvl, lvl.SolutionBoard(), http.StatusOK, nil
}

// serveWebsocket runs a fresh simulation for the spectator and streams every step.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	lvl, board, status, err := s.boardFor(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	logger := s.logger.With("puzzle", lvl.ID(), "remote", r.RemoteAddr)
	logger.Info("spectator connected")
	err = s.stream(r.Context(), ws, lvl.Puzzle, board)
	if err != nil && !errors.Is(err, errFinished) && !isClosure(err) {
		logger.Warn("stream ended", "error", err)
	}
	logger.Info("spectator disconnected")
}

// stream runs the read, ping and publish loops until one of them ends.
func (s *Server) stream(ctx context.Context, ws *websocket.Conn, puzzle *core.Puzzle, board *core.Board) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-groupCtx.Done()
		return ws.Close()
	})
	group.Go(func() error {
		return readMessages(ws)
	})
	group.Go(func() error {
		return pingPong(groupCtx, ws)
	})
	group.Go(func() error {
		return s.publish(groupCtx, ws, puzzle, board)
	})

	return group.Wait()
}

// readMessages drains the peer so control frames are processed.
func readMessages(ws *websocket.Conn) error {
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return err
		}
	}
}

// pingPong checks spectator liveness. It relies on readMessages running.
func pingPong(ctx context.Context, ws *websocket.Conn) error {
	pong := make(chan struct{}, 1)
	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingPeriod)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pong:
			lastPong = time.Now()
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
		}
	}
}

// publish steps the simulation once per step duration and writes each result.
func (s *Server) publish(ctx context.Context, ws *websocket.Conn, puzzle *core.Puzzle, board *core.Board) error {
	sim := core.NewSimulator(board, puzzle, nil, core.Options{StepDuration: s.cfg.StepDuration})
	sim.Init()
	frame := render.Frame{Puzzle: puzzle, Board: board, Sim: sim}

	write := func(msg Message) error {
		if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("failed to set deadline: %w", err)
		}
		if err := ws.WriteJSON(msg); err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}
		return nil
	}
	finish := func(kind string) error {
		if err := write(finalMessage(kind, frame)); err != nil {
			return err
		}
		//nolint:errcheck // Best-effort close handshake
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, kind),
			time.Now().Add(writeWait))
		return errFinished
	}

	if err := write(stepMessage(frame, core.StepResult{Flows: sim.Queue()})); err != nil {
		return err
	}

	for range channerics.NewTicker(ctx.Done(), s.cfg.StepDuration) {
		res, err := sim.Step()
		if err != nil {
			return err
		}
		if err := write(stepMessage(frame, res)); err != nil {
			return err
		}

		switch {
		case res.Victory:
			return finish(TypeVictory)
		case sim.Idle() || res.Step >= s.cfg.MaxSteps:
			return finish(TypeIdle)
		}
	}
	return nil
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
