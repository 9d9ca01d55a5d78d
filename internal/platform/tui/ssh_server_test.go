package tui

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/wish/testsession"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
)

func newTestSSHServer(t *testing.T, maxSessions int) *SSHServer {
	t.Helper()
	levels := []puzzles.Level{testLevel(t, 1), testLevel(t, 2)}
	srv, err := NewSSHServer(SSHServerConfig{
		Address:     "127.0.0.1:0",
		HostKeyPath: filepath.Join(t.TempDir(), "host_key"),
		MaxSessions: maxSessions,
	}, levels, nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	return srv
}

func TestSSHServerRequiresPTY(t *testing.T) {
	srv := newTestSSHServer(t, 0)

	out, err := testsession.New(t, srv.server, nil).CombinedOutput("")
	if err == nil {
		t.Error("expected a session without a PTY to fail")
	}
	if !strings.Contains(string(out), "Requires an active PTY") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSSHServerFull(t *testing.T) {
	srv := newTestSSHServer(t, 1)
	if _, ok := srv.acquire("alice"); !ok {
		t.Fatal("expected the first seat to be free")
	}

	out, err := testsession.New(t, srv.server, nil).CombinedOutput("")
	if err == nil {
		t.Error("expected a session on a full server to fail")
	}
	if !strings.Contains(string(out), "Chromatic is full") {
		t.Errorf("unexpected output: %q", out)
	}
	if got := srv.Sessions(); got != 1 {
		t.Errorf("rejected session changed the count: got %d", got)
	}

	srv.release("alice")
	if got := srv.Sessions(); got != 0 {
		t.Errorf("expected no sessions after release, got %d", got)
	}
	if len(srv.users) != 0 {
		t.Errorf("expected per-user counts to be cleared, got %v", srv.users)
	}
}

func TestSSHServerUnknownPuzzleCommand(t *testing.T) {
	srv := newTestSSHServer(t, 0)

	out, err := testsession.New(t, srv.server, nil).CombinedOutput("99")
	if err == nil {
		t.Error("expected an unknown puzzle to fail")
	}
	if !strings.Contains(string(out), "puzzle 99") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSSHServerSeatsPerUser(t *testing.T) {
	srv := newTestSSHServer(t, 3)

	for want := 1; want <= 2; want++ {
		got, ok := srv.acquire("bob")
		if !ok || got != want {
			t.Fatalf("acquire #%d: got (%d, %v)", want, got, ok)
		}
	}
	if got, _ := srv.acquire("carol"); got != 1 {
		t.Errorf("carol should hold one seat, got %d", got)
	}
	if _, ok := srv.acquire("dave"); ok {
		t.Error("expected the fourth seat to be refused")
	}

	srv.release("bob")
	if srv.users["bob"] != 1 || srv.Sessions() != 2 {
		t.Errorf("after release: users %v, sessions %d", srv.users, srv.Sessions())
	}
}

func TestSSHServerLevelFor(t *testing.T) {
	srv := newTestSSHServer(t, 0)

	testCases := []struct {
		name     string
		cmd      []string
		wantID   int
		wantErr  bool
		notFound bool
	}{
		{name: "menu", cmd: nil},
		{name: "known id", cmd: []string{"2"}, wantID: 2},
		{name: "unknown id", cmd: []string{"42"}, wantErr: true, notFound: true},
		{name: "not a number", cmd: []string{"two"}, wantErr: true},
		{name: "extra args", cmd: []string{"1", "2"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lvl, err := srv.levelFor(tc.cmd)
			if (err != nil) != tc.wantErr {
				t.Fatalf("levelFor(%v) error = %v, wantErr %v", tc.cmd, err, tc.wantErr)
			}
			if tc.notFound && !errors.Is(err, puzzles.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			switch {
			case tc.wantID == 0 && lvl != nil:
				t.Errorf("expected no level, got %d", lvl.ID())
			case tc.wantID != 0 && (lvl == nil || lvl.ID() != tc.wantID):
				t.Errorf("expected level %d, got %v", tc.wantID, lvl)
			}
		})
	}
}
