//go:build !windows

package downloaders

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func fakeBinary(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// collect drains the supervisor until the exit report of tag.
func collect(t *testing.T, s *Supervisor, tag string) (stdout, stderr []string, exit Output) {
	t.Helper()

	timeout := time.After(10 * time.Second)
	for {
		select {
		case o := <-s.Output():
			if o.Tag != tag {
				t.Fatalf("unexpected output from %q: %+v", o.Tag, o)
			}
			switch o.Stream {
			case Stdout:
				stdout = append(stdout, o.Text)
			case Stderr:
				stderr = append(stderr, o.Text)
			case Exit:
				return stdout, stderr, o
			}
		case <-timeout:
			t.Fatal("timed out waiting for the process to exit")
		}
	}
}

func TestSupervisorForwardsStreams(t *testing.T) {
	bin := fakeBinary(t, `
printf '__{"type": "pre_download", "video_id": "abc"}\n'
printf '[download]  10.0%%\r[download]  20.0%%\r'
echo 'ERROR: something went wrong' >&2
exit 0`)

	s := NewSupervisor(bin, 16)
	if err := s.Start("session-1", nil); err != nil {
		t.Fatal(err)
	}
	defer s.Kill()

	stdout, stderr, exit := collect(t, s, "session-1")

	wantOut := []string{
		`__{"type": "pre_download", "video_id": "abc"}`,
		"[download]  10.0%",
		"[download]  20.0%",
	}
	if !slices.Equal(stdout, wantOut) {
		t.Fatalf("stdout = %q, want %q", stdout, wantOut)
	}

	wantErr := []string{"stderr:ERROR: something went wrong"}
	if !slices.Equal(stderr, wantErr) {
		t.Fatalf("stderr = %q, want %q", stderr, wantErr)
	}

	if exit.Err != nil {
		t.Fatalf("unexpected exit error: %v", exit.Err)
	}
	if s.IsRunning() {
		t.Fatal("exited process reported as running")
	}
}

func TestSupervisorDrainsOversizedChunk(t *testing.T) {
	// 2 MiB without a separator, well past maxChunkSize and any pipe buffer
	bin := fakeBinary(t, `
head -c 2097152 /dev/zero | tr '\0' 'x'
printf '\nafter\n'
echo 'still here' >&2
exit 0`)

	s := NewSupervisor(bin, 16)
	if err := s.Start("oversized", nil); err != nil {
		t.Fatal(err)
	}
	defer s.Kill()

	stdout, stderr, exit := collect(t, s, "oversized")

	if exit.Err != nil {
		t.Fatalf("unexpected exit error: %v", exit.Err)
	}
	if slices.Contains(stdout, "after") {
		t.Fatalf("output after the oversized chunk must be discarded: %q", stdout)
	}
	if !slices.Equal(stderr, []string{"stderr:still here"}) {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestSupervisorAppendsMachineFlags(t *testing.T) {
	bin := fakeBinary(t, `for a in "$@"; do echo "$a"; done`)

	s := NewSupervisor(bin, 64)
	if err := s.Start("args", []string{"https://example.com/v", "-x"}); err != nil {
		t.Fatal(err)
	}
	defer s.Kill()

	stdout, _, _ := collect(t, s, "args")

	if len(stdout) < 3 || stdout[0] != "https://example.com/v" || stdout[1] != "-x" {
		t.Fatalf("caller args must come first: %q", stdout)
	}
	if got := stdout[len(stdout)-1]; got != "--no-simulate" {
		t.Fatalf("last argument = %q", got)
	}

	var template string
	for i, a := range stdout {
		if a == "--progress-template" {
			template = stdout[i+1]
			break
		}
	}
	if !strings.HasPrefix(template, `download:__{"type": "downloading",`) {
		t.Fatalf("unexpected download template %q", template)
	}
}

func TestSupervisorReportsExitStatus(t *testing.T) {
	bin := fakeBinary(t, "exit 3")

	s := NewSupervisor(bin, 4)
	if err := s.Start("failing", nil); err != nil {
		t.Fatal(err)
	}
	defer s.Kill()

	_, _, exit := collect(t, s, "failing")

	var exitErr *exec.ExitError
	if !errors.As(exit.Err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit status 3, got %v", exit.Err)
	}
}

func TestSupervisorKill(t *testing.T) {
	bin := fakeBinary(t, "sleep 30")

	s := NewSupervisor(bin, 4)
	if err := s.Start("sleeper", nil); err != nil {
		t.Fatal(err)
	}

	if !s.IsRunning() {
		t.Fatal("expected a running process")
	}

	killed := make(chan error, 1)
	go func() { killed <- s.Kill() }()

	select {
	case err := <-killed:
		if err != nil {
			t.Fatalf("kill: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("kill did not return")
	}

	if s.IsRunning() {
		t.Fatal("process still reported as running")
	}
	if err := s.Kill(); err != nil {
		t.Fatalf("second kill: %v", err)
	}
}

func TestSupervisorStartReplacesProcess(t *testing.T) {
	s := NewSupervisor(fakeBinary(t, "sleep 30"), 4)
	if err := s.Start("old", nil); err != nil {
		t.Fatal(err)
	}

	s.binary = fakeBinary(t, "echo done")
	if err := s.Start("new", nil); err != nil {
		t.Fatal(err)
	}
	defer s.Kill()

	stdout, _, exit := collect(t, s, "new")
	if !slices.Equal(stdout, []string{"done"}) || exit.Err != nil {
		t.Fatalf("stdout = %q, exit = %v", stdout, exit.Err)
	}
}

func TestSupervisorMissingBinary(t *testing.T) {
	s := NewSupervisor(filepath.Join(t.TempDir(), "nope"), 1)

	err := s.Start("missing", nil)
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
	if s.IsRunning() {
		t.Fatal("nothing should be running")
	}
}

func TestSplitProgress(t *testing.T) {
	data := []byte("a\rb\nc")
	var tokens []string

	for len(data) > 0 {
		adv, tok, err := splitProgress(data, true)
		if err != nil {
			t.Fatal(err)
		}
		tokens = append(tokens, string(tok))
		data = data[adv:]
	}

	if !slices.Equal(tokens, []string{"a", "b", "c"}) {
		t.Fatalf("tokens = %q", tokens)
	}
}
