package downloaders

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"sync"

	"github.com/ytdlp-gui/ytdlp-gui/server/internal/progress"
)

type Stream int

const (
	Stdout Stream = iota
	Stderr
	Exit
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Output is a chunk of text read from the child, or its exit report.
// Tag is the value handed to Start and lets the consumer drop output of a
// process it no longer cares about.
type Output struct {
	Tag    string
	Stream Stream
	Text   string
	// Exit only: nil on a zero exit status.
	Err error
}

// Supervisor owns at most one yt-dlp child process at a time.
type Supervisor struct {
	binary string
	out    chan Output

	mu   sync.Mutex
	proc *process
}

type process struct {
	tag string
	cmd *exec.Cmd
	out chan<- Output

	// read ends of the stdout and stderr pipes
	pipes []*os.File

	readers  sync.WaitGroup
	killed   chan struct{}
	killOnce sync.Once
	exited   chan struct{}
	done     chan struct{}
}

// NewSupervisor resolves binary through the PATH on every Start, buffer
// sizes the shared output channel.
func NewSupervisor(binary string, buffer int) *Supervisor {
	return &Supervisor{
		binary: binary,
		out:    make(chan Output, buffer),
	}
}

// Output is the single channel every process writes to.
func (s *Supervisor) Output() <-chan Output { return s.out }

// Start kills any running process and spawns yt-dlp with args followed by
// the machine output flags.
func (s *Supervisor) Start(tag string, args []string) error {
	if err := s.Kill(); err != nil {
		slog.Warn("failed to kill previous process", slog.Any("err", err))
	}

	bin, err := exec.LookPath(s.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBinaryNotFound, s.binary, err)
	}

	params := append(slices.Clone(args), machineOutputFlags()...)

	slog.Info("requesting download", slog.String("id", tag), slog.Any("params", params))

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return &SpawnError{Binary: bin, Err: err}
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		return &SpawnError{Binary: bin, Err: err}
	}

	cmd := exec.Command(bin, params...)
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW
	configure(cmd)

	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		return &SpawnError{Binary: bin, Err: err}
	}

	// the child holds its own copies
	closeAll(stdoutW, stderrW)

	p := &process{
		tag:    tag,
		cmd:    cmd,
		out:    s.out,
		pipes:  []*os.File{stdoutR, stderrR},
		killed: make(chan struct{}),
		exited: make(chan struct{}),
		done:   make(chan struct{}),
	}

	p.readers.Add(2)
	go p.produceLogs(stdoutR, Stdout, splitProgress, "")
	go p.produceLogs(stderrR, Stderr, bufio.ScanLines, progress.StderrTag)
	go p.wait()

	s.mu.Lock()
	s.proc = p
	s.mu.Unlock()

	return nil
}

// Kill terminates the owned process, if any, and waits until it has been
// reaped and its readers have returned. Calling it again is a no-op.
func (s *Supervisor) Kill() error {
	s.mu.Lock()
	p := s.proc
	s.proc = nil
	s.mu.Unlock()

	if p == nil {
		return nil
	}

	return p.kill()
}

// IsRunning reports whether a process is owned and has not exited yet.
func (s *Supervisor) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return false
	}

	select {
	case <-s.proc.exited:
		return false
	default:
		return true
	}
}

func (p *process) wait() {
	defer close(p.done)

	err := p.cmd.Wait()
	close(p.exited)

	// report the exit after the last chunk of output
	p.readers.Wait()

	select {
	case p.out <- Output{Tag: p.tag, Stream: Exit, Err: err}:
	case <-p.killed:
	}
}

func (p *process) kill() error {
	p.killOnce.Do(func() { close(p.killed) })

	var err error

	select {
	case <-p.exited:
	default:
		if kerr := terminate(p.cmd.Process); kerr != nil {
			err = &KillError{Pid: p.cmd.Process.Pid, Err: kerr}
		}
	}

	// grandchildren may still hold the write ends
	closeAll(p.pipes...)

	<-p.done
	slog.Debug("process reaped", slog.String("id", p.tag))

	return err
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		f.Close()
	}
}
