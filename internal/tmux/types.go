package tmux

import (
	"os/exec"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

var (
	newTmux = func(socketPath string) (tmuxClient, error) {
		if socketPath != "" {
			return gotmux.NewTmux(socketPath)
		}
		return gotmux.DefaultTmux()
	}

	runExecCommand = func(name string, args ...string) commander {
		return realCommander{cmd: exec.Command(name, args...)}
	}
)

type tmuxClient interface {
	ListSessions() ([]*gotmux.Session, error)
	ListClients() ([]*gotmux.Client, error)
	Close() error
}

type commander interface {
	Run() error
	Output() ([]byte, error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Run() error {
	return r.cmd.Run()
}

func (r realCommander) Output() ([]byte, error) {
	return r.cmd.Output()
}
