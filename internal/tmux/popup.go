package tmux

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/logging"
)

// PopupTransport tears a window out of the desk into a tmux popup on the
// first attached client. The session ends when the popup is dismissed.
type PopupTransport struct {
	SocketPath string
	CellWidth  float64
	CellHeight float64
}

var createTemp = os.CreateTemp

func (p PopupTransport) StartDrag(req floating.DragRequest, done func(floating.DragResult)) error {
	status, err := Probe(p.SocketPath)
	if err != nil {
		return err
	}
	if !status.Ready() {
		return ErrNoClient
	}

	cols, rows := p.cells(req.Rect.Width, req.Rect.Height)
	body := ""
	if req.View != nil {
		body = req.View.Render(cols, rows)
	}
	f, err := createTemp("", "floatdesk-*.txt")
	if err != nil {
		return fmt.Errorf("create popup buffer: %w", err)
	}
	path := f.Name()
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write popup buffer: %w", err)
	}
	f.Close()

	title := req.Label
	if title == "" {
		title = content.KindOf(req.View)
	}
	args := p.popupArgs(status.Clients[0], title, cols, rows, path)
	cmd := runExecCommand("tmux", args...)
	go func() {
		defer os.Remove(path)
		err := cmd.Run()
		if err != nil {
			log := logging.WithComponent("tmux")
			log.Warn().Err(err).Str("name", req.Name).Msg("popup exited with error")
		}
		done(floating.DragResult{Dropped: err == nil, Err: err})
	}()
	return nil
}

// popupArgs builds a display-popup invocation sized to the torn out view,
// borders included.
func (p PopupTransport) popupArgs(client, title string, cols, rows int, path string) []string {
	args := append([]string(nil), baseArgs(p.SocketPath)...)
	return append(args,
		"display-popup", "-E",
		"-c", client,
		"-T", title,
		"-w", strconv.Itoa(cols+2),
		"-h", strconv.Itoa(rows+2),
		"cat "+shellQuote(path)+"; read -r _",
	)
}

func (p PopupTransport) cells(width, height float64) (int, int) {
	cw, ch := p.CellWidth, p.CellHeight
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	cols := int(math.Max(1, math.Round(width/cw)))
	rows := int(math.Max(1, math.Round(height/ch)))
	return cols, rows
}
