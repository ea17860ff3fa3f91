package preview

import (
	"sync"
	"time"

	"github.com/lotabout/skim/internal/executil"
)

// Manager runs the preview command for whatever item is currently
// highlighted, debouncing rapid cursor movement and cancelling any
// in-flight subprocess that's been superseded before it finishes.
// Grounded on terminal.go's preview goroutine, which waits on a timer
// before spawning and kills the previous preview process on every new
// request.
type Manager struct {
	shell    string
	debounce time.Duration
	grace    time.Duration

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	current *executil.Handle
}

// NewManager returns a Manager that runs preview commands under shell,
// waiting debounce before spawning and giving a terminated preview grace
// to exit before escalating to SIGKILL.
func NewManager(shell string, debounce, grace time.Duration) *Manager {
	return &Manager{shell: shell, debounce: debounce, grace: grace}
}

// Request supersedes any pending or running preview and schedules command
// to run after the debounce interval. onDone fires with the finished
// Handle, but only if nothing newer superseded this request first.
func (m *Manager) Request(command string, env []string, onDone func(*executil.Handle)) {
	m.mu.Lock()
	m.seq++
	mySeq := m.seq
	if m.timer != nil {
		m.timer.Stop()
	}
	m.killCurrentLocked()
	m.timer = time.AfterFunc(m.debounce, func() { m.run(mySeq, command, env, onDone) })
	m.mu.Unlock()
}

func (m *Manager) run(seq uint64, command string, env []string, onDone func(*executil.Handle)) {
	m.mu.Lock()
	if seq != m.seq {
		m.mu.Unlock()
		return
	}
	h, err := executil.Start(m.shell, command, env)
	if err != nil {
		m.mu.Unlock()
		return
	}
	m.current = h
	m.mu.Unlock()

	h.Wait()

	m.mu.Lock()
	stillCurrent := seq == m.seq && m.current == h
	m.mu.Unlock()

	if stillCurrent && onDone != nil {
		onDone(h)
	}
}

// Cancel stops any pending or in-flight preview without scheduling a new
// one, used when the preview pane is hidden or the session is closing.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if m.timer != nil {
		m.timer.Stop()
	}
	m.killCurrentLocked()
}

// killCurrentLocked terminates the in-flight preview process, if any,
// without blocking the caller on its exit (Handle.Terminate can block
// until a SIGKILL grace period elapses, which must not stall the next
// Request). Must be called with m.mu held.
func (m *Manager) killCurrentLocked() {
	if m.current == nil {
		return
	}
	h := m.current
	m.current = nil
	go h.Terminate(m.grace)
}
