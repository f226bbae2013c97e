package daemon

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/smykla-skalski/slack-code/internal/fsutil"
	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

// StopResult describes what Stop found and did.
type StopResult int

const (
	// StopResultStopped means the daemon exited after SIGTERM.
	StopResultStopped StopResult = iota

	// StopResultKilled means the daemon ignored SIGTERM and was killed.
	StopResultKilled

	// StopResultNotRunning means there was no PID file.
	StopResultNotRunning

	// StopResultStalePID means the PID file named no live process.
	StopResultStalePID
)

// String returns the message printed by `daemon stop`.
func (r StopResult) String() string {
	switch r {
	case StopResultStopped:
		return "daemon stopped"
	case StopResultKilled:
		return "daemon killed after timeout"
	case StopResultNotRunning:
		return "daemon is not running"
	case StopResultStalePID:
		return "removed stale PID file"
	default:
		return "unknown"
	}
}

const (
	// DaemonizedEnv marks a process started by Spawn.
	DaemonizedEnv = "SLACK_CODE_DAEMONIZED"

	// DefaultStopTimeout is how long Stop waits after SIGTERM.
	DefaultStopTimeout = 5 * time.Second

	// DefaultPollInterval is how often Stop checks for exit.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultStartDelay is how long StartBackground waits after spawning.
	DefaultStartDelay = 500 * time.Millisecond

	// DefaultStartTimeout bounds waiting for a spawned daemon's socket.
	DefaultStartTimeout = 5 * time.Second

	probeTimeout = time.Second
)

var (
	// ErrAlreadyRunning is returned when starting while a daemon is live.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when an operation needs a live daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrInvalidPIDFile is returned when the PID file has no decimal PID.
	ErrInvalidPIDFile = errors.New("invalid PID file")
)

// Controller starts, stops and probes the daemon process through its PID
// file and socket.
type Controller struct {
	pidFile    string
	socketPath string
	logFile    string
	client     *transport.Client
	logger     logger.Logger

	executable   string
	runArgs      []string
	stopTimeout  time.Duration
	pollInterval time.Duration
	startDelay   time.Duration
	startTimeout time.Duration
	sleep        func(time.Duration)
}

// ControllerOption configures the Controller.
type ControllerOption func(*Controller)

// WithControllerLogger sets the logger.
func WithControllerLogger(log logger.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithCommand sets the program and arguments Spawn runs. Defaults to the
// current executable with "daemon run".
func WithCommand(executable string, args ...string) ControllerOption {
	return func(c *Controller) {
		c.executable = executable
		c.runArgs = args
	}
}

// WithStopTimeout sets how long Stop waits before killing.
func WithStopTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.stopTimeout = d
		}
	}
}

// WithPollInterval sets how often Stop and Start poll.
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithStartDelay sets how long StartBackground waits after spawning.
func WithStartDelay(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.startDelay = d
	}
}

// WithStartTimeout sets how long Start waits for the socket.
func WithStartTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.startTimeout = d
		}
	}
}

// NewController creates a controller for the daemon described by cfg.
func NewController(cfg *config.DaemonConfig, opts ...ControllerOption) *Controller {
	if cfg == nil {
		cfg = &config.DaemonConfig{}
	}

	c := &Controller{
		pidFile:      cfg.PIDFile,
		socketPath:   cfg.SocketPath,
		logFile:      cfg.LogFile,
		client:       transport.NewClient(cfg.SocketPath, transport.WithTimeout(probeTimeout)),
		logger:       logger.NewNoOpLogger(),
		runArgs:      []string{"daemon", "run"},
		stopTimeout:  DefaultStopTimeout,
		pollInterval: DefaultPollInterval,
		startDelay:   DefaultStartDelay,
		startTimeout: DefaultStartTimeout,
		sleep:        time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ReadPID returns the PID recorded in the PID file, or 0 when there is no
// file.
func (c *Controller) ReadPID() (int, error) {
	data, err := os.ReadFile(c.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, errors.Wrapf(err, "reading %s", c.pidFile)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, errors.Wrapf(ErrInvalidPIDFile, "%s: %q", c.pidFile, strings.TrimSpace(string(data)))
	}

	return pid, nil
}

// WritePID records pid in the PID file.
func (c *Controller) WritePID(pid int) error {
	_, err := fsutil.AtomicWriteFile(c.pidFile, []byte(strconv.Itoa(pid)+"\n"))

	return errors.Wrap(err, "writing PID file")
}

// ReleasePID removes the PID file if it still records pid.
func (c *Controller) ReleasePID(pid int) {
	if recorded, err := c.ReadPID(); err == nil && recorded == pid {
		c.removePID()
	}
}

// Probe reports the PID in the PID file, whether it names a live process
// and whether the socket accepts connections.
type Probe struct {
	PID             int
	ProcessAlive    bool
	SocketReachable bool
}

// Usable reports whether a daemon is live and reachable.
func (p Probe) Usable() bool {
	return p.ProcessAlive && p.SocketReachable
}

// Probe checks the PID file and the socket.
func (c *Controller) Probe(ctx context.Context) Probe {
	var p Probe

	pid, err := c.ReadPID()
	if err != nil || pid == 0 {
		return p
	}

	p.PID = pid
	p.ProcessAlive = processAlive(pid)

	if p.ProcessAlive {
		p.SocketReachable = c.client.IsReachable(ctx)
	}

	return p
}

// IsRunning is true only when the PID file names a live process and the
// socket accepts connections.
func (c *Controller) IsRunning(ctx context.Context) bool {
	return c.Probe(ctx).Usable()
}

// PrepareRun is called by a process about to run the loop in the
// foreground. It refuses when another daemon is live and records the
// current PID.
func (c *Controller) PrepareRun(ctx context.Context) error {
	if c.IsRunning(ctx) {
		return ErrAlreadyRunning
	}

	return c.WritePID(os.Getpid())
}

// Spawn starts the daemon detached in a new session with output appended
// to the log file, and returns its PID.
func (c *Controller) Spawn() (int, error) {
	executable := c.executable
	if executable == "" {
		self, err := os.Executable()
		if err != nil {
			return 0, errors.Wrap(err, "locating executable")
		}

		executable = self
	}

	logOut, err := c.openLog()
	if err != nil {
		return 0, err
	}
	defer func() { _ = logOut.Close() }()

	cmd := exec.Command(executable, c.runArgs...)
	cmd.Dir = "/"
	cmd.Env = append(os.Environ(), DaemonizedEnv+"=1")
	cmd.Stdout = logOut
	cmd.Stderr = logOut
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, errors.Wrapf(err, "starting %s", executable)
	}

	pid := cmd.Process.Pid

	// Reap the child if it exits while we are still around.
	go func() { _ = cmd.Wait() }()

	c.logger.Info("daemon spawned", "pid", pid, "log", c.logFile)

	return pid, nil
}

func (c *Controller) openLog() (*os.File, error) {
	if c.logFile == "" {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)

		return f, errors.Wrap(err, "opening null device")
	}

	if err := os.MkdirAll(filepath.Dir(c.logFile), fsutil.DirPermissions); err != nil {
		return nil, errors.Wrap(err, "creating log directory")
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fsutil.FilePermissions)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", c.logFile)
	}

	return f, nil
}

// Start detaches a new daemon and waits until its socket is reachable.
func (c *Controller) Start(ctx context.Context) (int, error) {
	if c.IsRunning(ctx) {
		return 0, ErrAlreadyRunning
	}

	pid, err := c.Spawn()
	if err != nil {
		return 0, err
	}

	deadline := time.Now().Add(c.startTimeout)

	for time.Now().Before(deadline) {
		if c.client.IsReachable(ctx) {
			return pid, nil
		}

		if !processAlive(pid) {
			return pid, errors.Newf("daemon exited during startup, see %s", c.logFile)
		}

		c.sleep(c.pollInterval)
	}

	return pid, errors.Newf("daemon did not open %s within %s", c.socketPath, c.startTimeout)
}

// StartBackground spawns a daemon unless one is live, then waits a short
// fixed delay without checking readiness.
func (c *Controller) StartBackground(ctx context.Context) error {
	if c.IsRunning(ctx) {
		return nil
	}

	if _, err := c.Spawn(); err != nil {
		return err
	}

	c.sleep(c.startDelay)

	return nil
}

// Stop terminates the daemon named by the PID file: SIGTERM, then SIGKILL
// after the stop timeout. Once the PID file is resolved, missing or stale,
// the PID and socket files are removed. A PID file that cannot be read
// leaves both in place.
func (c *Controller) Stop(_ context.Context) (StopResult, error) {
	pid, err := c.ReadPID()
	if err != nil {
		if errors.Is(err, ErrInvalidPIDFile) {
			c.logger.Info("removing unreadable PID file", "path", c.pidFile)
			c.removePID()
			c.removeSocket()

			return StopResultStalePID, nil
		}

		return StopResultNotRunning, err
	}

	defer c.removeSocket()

	if pid == 0 {
		return StopResultNotRunning, nil
	}

	if !processAlive(pid) {
		c.logger.Info("removing stale PID file", "pid", pid)
		c.removePID()

		return StopResultStalePID, nil
	}

	defer c.removePID()

	proc, err := process.NewProcess(int32(pid)) //nolint:gosec // PIDs fit in int32
	if err != nil {
		return StopResultStalePID, nil //nolint:nilerr // the process exited meanwhile
	}

	c.logger.Info("sending SIGTERM", "pid", pid)

	if err := proc.Terminate(); err != nil {
		if !processAlive(pid) {
			return StopResultStopped, nil
		}

		return StopResultNotRunning, errors.Wrapf(err, "signalling %d", pid)
	}

	for waited := time.Duration(0); waited < c.stopTimeout; waited += c.pollInterval {
		if !processAlive(pid) {
			return StopResultStopped, nil
		}

		c.sleep(c.pollInterval)
	}

	c.logger.Info("daemon did not stop, sending SIGKILL", "pid", pid)

	if err := proc.Kill(); err != nil && processAlive(pid) {
		return StopResultKilled, errors.Wrapf(err, "killing %d", pid)
	}

	return StopResultKilled, nil
}

func (c *Controller) removePID() {
	if err := os.Remove(c.pidFile); err != nil && !os.IsNotExist(err) {
		c.logger.Error("removing PID file failed", "error", err.Error())
	}
}

func (c *Controller) removeSocket() {
	if c.socketPath == "" {
		return
	}

	if err := os.Remove(c.socketPath); err != nil && !os.IsNotExist(err) {
		c.logger.Error("removing socket failed", "error", err.Error())
	}
}

// processAlive reports whether pid names a running, non-zombie process.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := process.NewProcess(int32(pid)) //nolint:gosec // PIDs fit in int32
	if err != nil {
		return false
	}

	running, err := proc.IsRunning()
	if err != nil || !running {
		return false
	}

	status, err := proc.Status()
	if err == nil && slices.Contains(status, process.Zombie) {
		return false
	}

	return true
}
