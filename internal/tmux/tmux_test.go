package tmux

import (
	"bytes"
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"

	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/logging"
)

func withStubTmux(t *testing.T, fn func(string) (tmuxClient, error)) {
	t.Helper()
	prev := newTmux
	newTmux = fn
	t.Cleanup(func() { newTmux = prev })
}

func withStubCommander(t *testing.T, fn func(string, ...string) commander) {
	t.Helper()
	prev := runExecCommand
	runExecCommand = fn
	t.Cleanup(func() { runExecCommand = prev })
}

type fakeClient struct {
	sessions   []*gotmux.Session
	clients    []*gotmux.Client
	sessionErr error
	closed     bool
}

func (f *fakeClient) ListSessions() ([]*gotmux.Session, error) {
	return f.sessions, f.sessionErr
}

func (f *fakeClient) ListClients() ([]*gotmux.Client, error) {
	return f.clients, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type stubCommander struct {
	runErr error
	output []byte
}

func (s *stubCommander) Run() error {
	return s.runErr
}

func (s *stubCommander) Output() ([]byte, error) {
	return s.output, s.runErr
}

type note struct{ text string }

func (n *note) Render(int, int) string { return n.text }

func attachedClient() *fakeClient {
	return &fakeClient{
		sessions: []*gotmux.Session{{Name: "main"}},
		clients: []*gotmux.Client{
			{Name: "ctl", Session: "main", ControlMode: true},
			{Name: "/dev/pts/3", Session: "main"},
		},
	}
}

func TestProbeSkipsControlModeClients(t *testing.T) {
	fake := attachedClient()
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	status, err := Probe("/tmp/sock")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if status.Sessions != 1 || len(status.Clients) != 1 || status.Clients[0] != "/dev/pts/3" {
		t.Fatalf("unexpected status %#v", status)
	}
	if !fake.closed {
		t.Fatalf("expected client closed")
	}
}

func TestProbeWrapsErrors(t *testing.T) {
	boom := errors.New("no server running")
	withStubTmux(t, func(string) (tmuxClient, error) { return nil, boom })
	if _, err := Probe(""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped connect error, got %v", err)
	}
	withStubTmux(t, func(string) (tmuxClient, error) {
		return &fakeClient{sessionErr: boom}, nil
	})
	if _, err := Probe(""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}

func TestPopupTransportRequiresClient(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) { return &fakeClient{}, nil })
	called := false
	withStubCommander(t, func(string, ...string) commander {
		called = true
		return &stubCommander{}
	})
	err := PopupTransport{}.StartDrag(floating.DragRequest{View: &note{}}, func(floating.DragResult) {})
	if !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if called {
		t.Fatalf("expected no popup command without a client")
	}
}

func TestPopupTransportRunsDisplayPopup(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) { return attachedClient(), nil })
	var gotArgs []string
	withStubCommander(t, func(name string, args ...string) commander {
		gotArgs = args
		return &stubCommander{}
	})
	results := make(chan floating.DragResult, 1)
	transport := PopupTransport{SocketPath: "/tmp/sock", CellWidth: 8, CellHeight: 16}
	req := floating.DragRequest{
		Name:  "floatwin-1",
		Label: "Ticker",
		Rect:  geom.Rect{Width: 320, Height: 160},
		View:  &note{text: "hello"},
	}
	if err := transport.StartDrag(req, func(r floating.DragResult) { results <- r }); err != nil {
		t.Fatalf("StartDrag returned error: %v", err)
	}
	select {
	case res := <-results:
		if !res.Dropped || res.Err != nil {
			t.Fatalf("expected clean drop, got %#v", res)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected completion")
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-S /tmp/sock", "display-popup -E", "-c /dev/pts/3", "-T Ticker", "-w 42", "-h 12"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %v", want, gotArgs)
		}
	}
}

func TestPopupTransportReportsFailure(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) { return attachedClient(), nil })
	boom := errors.New("exit status 1")
	withStubCommander(t, func(string, ...string) commander {
		return &stubCommander{runErr: boom}
	})
	buf := &bytes.Buffer{}
	logging.SetOutput(buf)
	t.Cleanup(func() { logging.SetOutput(nil) })

	results := make(chan floating.DragResult, 1)
	err := PopupTransport{}.StartDrag(floating.DragRequest{Name: "floatwin-1", View: &note{}}, func(r floating.DragResult) { results <- r })
	if err != nil {
		t.Fatalf("StartDrag returned error: %v", err)
	}
	res := <-results
	if res.Dropped || !errors.Is(res.Err, boom) {
		t.Fatalf("expected failed drop, got %#v", res)
	}
	logged := buf.String()
	if !strings.Contains(logged, `"component":"tmux"`) || !strings.Contains(logged, "floatwin-1") {
		t.Fatalf("expected tmux component log for the popup, got %q", logged)
	}
}

func TestPopupArgsAreIndependent(t *testing.T) {
	p := PopupTransport{SocketPath: "/tmp/floatdesk.sock"}
	first := p.popupArgs("/dev/pts/1", "Note", 10, 4, "/tmp/a")
	second := p.popupArgs("/dev/pts/1", "Note", 10, 4, "/tmp/b")
	first[0] = "changed"
	if second[0] != "-S" || second[2] != "display-popup" {
		t.Fatalf("expected second invocation untouched, got %v", second)
	}
	if last := second[len(second)-1]; !strings.Contains(last, "/tmp/b") {
		t.Fatalf("expected second popup to show its own buffer, got %q", last)
	}
}

func TestPopupTransportCreateTempFailure(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) { return attachedClient(), nil })
	prev := createTemp
	createTemp = func(string, string) (*os.File, error) { return nil, errors.New("read-only fs") }
	t.Cleanup(func() { createTemp = prev })
	if err := (PopupTransport{}).StartDrag(floating.DragRequest{}, func(floating.DragResult) {}); err == nil {
		t.Fatalf("expected error when the buffer cannot be created")
	}
}

func TestShellQuote(t *testing.T) {
	if got := shellQuote("it's"); got != `'it'\''s'` {
		t.Fatalf("unexpected quoting %q", got)
	}
}

func TestResolveSocketPath(t *testing.T) {
	if got, _ := ResolveSocketPath("/flag"); got != "/flag" {
		t.Fatalf("expected flag value, got %q", got)
	}
	t.Setenv("FLOATDESK_SOCKET", "/env")
	if got, _ := ResolveSocketPath(""); got != "/env" {
		t.Fatalf("expected env socket, got %q", got)
	}
	t.Setenv("FLOATDESK_SOCKET", "")
	t.Setenv("TMUX", "/tmp/tmux-1000/work,123,0")
	if got, _ := ResolveSocketPath(""); got != "/tmp/tmux-1000/work" {
		t.Fatalf("expected $TMUX socket, got %q", got)
	}
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_TMPDIR", "/run/tmux")
	u, err := user.Current()
	if err != nil {
		t.Skipf("no current user: %v", err)
	}
	want := filepath.Join("/run/tmux", "tmux-"+u.Uid, "default")
	if got, _ := ResolveSocketPath(""); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
