package tmux

import (
	"errors"
	"fmt"
)

// ErrNoClient means the server has no attached terminal to open a popup on.
var ErrNoClient = errors.New("no attached tmux client")

// Status summarises what a drag-out can target.
type Status struct {
	Sessions int
	// Clients are the attached terminal clients, excluding control-mode
	// connections such as our own.
	Clients []string
}

// Ready reports whether a popup can be shown.
func (s Status) Ready() bool {
	return len(s.Clients) > 0
}

// Probe connects to the server and lists its sessions and clients.
func Probe(socketPath string) (Status, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return Status{}, fmt.Errorf("connect tmux: %w", err)
	}
	defer client.Close()

	sessions, err := client.ListSessions()
	if err != nil {
		return Status{}, fmt.Errorf("list sessions: %w", err)
	}
	clients, err := client.ListClients()
	if err != nil {
		return Status{}, fmt.Errorf("list clients: %w", err)
	}
	status := Status{Sessions: len(sessions)}
	for _, c := range clients {
		if c == nil || c.ControlMode || c.Name == "" {
			continue
		}
		status.Clients = append(status.Clients, c.Name)
	}
	return status, nil
}
