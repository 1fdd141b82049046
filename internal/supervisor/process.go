package supervisor

import (
	"bufio"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// childProcess owns the OS process and its three standard streams for one
// supervised LSP server.
type childProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

func spawnProcess(command []string, dir string, log zerolog.Logger) (*childProcess, error) {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	go forwardStderr(stderr, log)

	return &childProcess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// forwardStderr mirrors a child's stderr into the bridge's own log
// stream verbatim.
func forwardStderr(r io.Reader, log zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		log.Debug().Str("stream", "stderr").Msg(scanner.Text())
	}
}

func (c *childProcess) kill() {
	if c.cmd.Process == nil {
		return
	}
	_ = c.cmd.Process.Kill()
	_, _ = c.cmd.Process.Wait()
}
