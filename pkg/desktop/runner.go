package desktop

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/envsync/pkg/errors"
	"github.com/arthur-debert/envsync/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner runs an external command to completion.
type Runner interface {
	Run(name string, args ...string) error
}

type execRunner struct {
	logger zerolog.Logger
}

// NewExecRunner returns a Runner backed by os/exec. The command's stdout is
// passed through; stderr is captured into the returned error.
func NewExecRunner() Runner {
	return &execRunner{logger: logging.GetLogger("desktop.exec")}
}

func (r *execRunner) Run(name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		r.logger.Debug().
			Err(err).
			Str("command", name).
			Str("stderr", msg).
			Msg("Command failed")
		wrapped := errors.Wrapf(err, errors.ErrCommandFailed, "command %s failed", name).
			WithDetail("command", name).
			WithDetail("args", args)
		if msg != "" {
			wrapped = wrapped.WithDetail("stderr", msg)
		}
		return wrapped
	}
	return nil
}
