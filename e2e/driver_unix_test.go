//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// set by TestMain once the binary is built
var binPath = "cratetui_e2e"

// keep at most this much terminal output per session
const transcriptLimit = 1 << 20

// Keys as the terminal sends them, for the default bindings
const (
	KeyEnter  = "\r"
	KeyEsc    = "\x1b"
	KeyCtrlC  = "\x03"
	KeySpace  = " "
	KeyDown   = "j"
	KeyUp     = "k"
	KeyQuit   = "q"
	KeyHelp   = "?"
	KeySearch = "/"
	KeyFilter = "f"
	KeyPager  = "P"
)

var escapes = regexp.MustCompile(
	`\x1b\[[0-9;?]*[ -/]*[@-~]` + // CSI
		`|\x1b\][^\x07]*\x07` + // OSC
		`|\x1b[()][A-Za-z]` +
		`|\x1b[=>]` +
		`|\r`,
)

func plain(s string) string {
	return escapes.ReplaceAllString(s, "")
}

// transcript collects everything the program writes. Offsets keep counting
// from the first byte even after old output is dropped.
type transcript struct {
	mu      sync.Mutex
	data    []byte
	dropped int
}

func (tr *transcript) Write(p []byte) (int, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.data = append(tr.data, p...)
	if over := len(tr.data) - transcriptLimit; over > 0 {
		tr.data = append(tr.data[:0:0], tr.data[over:]...)
		tr.dropped += over
	}
	return len(p), nil
}

// since returns the output written after offset, or all kept output when
// offset was already dropped
func (tr *transcript) since(offset int) string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	start := max(offset-tr.dropped, 0)
	if start > len(tr.data) {
		return ""
	}
	return string(tr.data[start:])
}

func (tr *transcript) end() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.dropped + len(tr.data)
}

// Session is one cratetui process on a pty, browsing a fake registry
type Session struct {
	t        *testing.T
	dir      string
	registry *FakeRegistry
	cmd      *exec.Cmd
	term     *os.File
	out      transcript
}

// NewSession prepares a session with its own home directory and registry.
// Nothing runs until Start.
func NewSession(t *testing.T) *Session {
	return &Session{
		t:        t,
		dir:      t.TempDir(),
		registry: NewFakeRegistry(t),
	}
}

func (s *Session) ConfigPath() string {
	return filepath.Join(s.dir, "config.toml")
}

// WriteConfig points the config at the fake registry with three crates a
// page. extra is added as top level TOML.
func (s *Session) WriteConfig(extra string) error {
	content := fmt.Sprintf(`log_level = "debug"
data_dir = %q
tick_rate = "100ms"
page_size = 3
%s

[registry]
base_url = %q
rate_limit = 0.0
`, filepath.Join(s.dir, "data"), extra, s.registry.URL())
	return os.WriteFile(s.ConfigPath(), []byte(content), 0644)
}

// Start runs cratetui with args on a 120x40 pty
func (s *Session) Start(args ...string) error {
	if _, err := os.Stat(s.ConfigPath()); os.IsNotExist(err) {
		if err := s.WriteConfig(""); err != nil {
			return err
		}
	}

	s.cmd = exec.Command(binPath, append([]string{"--config", s.ConfigPath()}, args...)...)
	s.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C.UTF-8",
		"LANG=C.UTF-8",
		"HOME="+s.dir,
		"XDG_CONFIG_HOME="+filepath.Join(s.dir, "xdg"),
		"CRATETUI_LOGLEVEL=debug",
	)

	// StartWithSize makes the pty the controlling terminal, which the
	// pager needs for /dev/tty
	term, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start cratetui: %w", err)
	}
	s.term = term

	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := term.Read(buf)
			if n > 0 {
				_, _ = s.out.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

func (s *Session) SendKeys(keys string) error {
	s.t.Helper()
	_, err := s.term.Write([]byte(keys))
	return err
}

// Type sends text a rune at a time with a short pause, like typing
func (s *Session) Type(text string) error {
	s.t.Helper()
	for _, r := range text {
		if err := s.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (s *Session) SendEnter() error { return s.SendKeys(KeyEnter) }
func (s *Session) SendEsc() error   { return s.SendKeys(KeyEsc) }
func (s *Session) SendCtrlC() error { return s.SendKeys(KeyCtrlC) }
func (s *Session) Down() error      { return s.SendKeys(KeyDown) }
func (s *Session) Quit() error      { return s.SendKeys(KeyQuit) }

// Ready waits for the first page of results
func (s *Session) Ready() bool {
	s.t.Helper()
	return s.WaitText("Page 1/", 5*time.Second)
}

// Shows waits up to three seconds for text anywhere in the output
func (s *Session) Shows(text string) bool {
	s.t.Helper()
	return s.WaitText(text, 3*time.Second)
}

// Mark is an output offset for ShowsSince
func (s *Session) Mark() int {
	return s.out.end()
}

// ShowsSince waits for text drawn after mark
func (s *Session) ShowsSince(mark int, text string) bool {
	s.t.Helper()
	return s.WaitUntil(func() bool {
		return strings.Contains(plain(s.out.since(mark)), text)
	}, 3*time.Second)
}

func (s *Session) WaitText(text string, timeout time.Duration) bool {
	s.t.Helper()
	return s.WaitUntil(func() bool {
		return strings.Contains(s.Screen(), text)
	}, timeout)
}

// WaitUntil polls cond until it holds or timeout passes
func (s *Session) WaitUntil(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
	return true
}

// Screen is all kept output with escape sequences removed
func (s *Session) Screen() string {
	return plain(s.out.since(0))
}

// Raw is all kept output as the terminal received it
func (s *Session) Raw() string {
	return s.out.since(0)
}

// SaveTail writes the last n bytes of plain output to a temp file and logs
// where, for failures that are hard to read inline
func (s *Session) SaveTail(name string, n int) {
	out := s.Screen()
	if len(out) > n {
		out = out[len(out)-n:]
	}
	path := filepath.Join(s.t.TempDir(), name+".txt")
	_ = os.WriteFile(path, []byte(out), 0644)
	s.t.Logf("output tail saved to %s", path)
}

// WaitExit waits for the process to end on its own
func (s *Session) WaitExit(timeout time.Duration) error {
	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()
	select {
	case err := <-exited:
		s.cmd = nil
		return err
	case <-time.After(timeout):
		return fmt.Errorf("cratetui still running after %s", timeout)
	}
}

// Close hangs up the pty and kills the process if it is still there
func (s *Session) Close() {
	if s.term != nil {
		_ = s.term.Close()
		s.term = nil
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		s.cmd = nil
	}
}
