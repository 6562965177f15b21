package procfs

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/fanwhy/fanwhy/internal/model"
)

// ErrSourceUnavailable marks a whole-source failure: the stat file or the
// process enumeration root itself cannot be read. Per-process failures are
// never reported through it.
var ErrSourceUnavailable = errors.New("source unavailable")

// placeholderName stands in for a process whose comm could not be resolved.
const placeholderName = "?"

// Reader captures CPU accounting from a proc filesystem root. The zero
// Root means /proc; tests point it at fixture trees.
type Reader struct {
	Root string
}

func NewReader() *Reader {
	return &Reader{Root: "/proc"}
}

func (r *Reader) root() string {
	if r.Root == "" {
		return "/proc"
	}
	return r.Root
}

// System reads the aggregate cpu line of <root>/stat. Only the first line
// is used; per-core lines are ignored.
func (r *Reader) System() (model.CPUCounters, error) {
	path := filepath.Join(r.root(), "stat")
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CPUCounters{}, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, path, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	fields := strings.Fields(line)
	if len(fields) < 9 || fields[0] != "cpu" {
		return model.CPUCounters{}, fmt.Errorf("%w: unexpected %s format: %q", ErrSourceUnavailable, path, line)
	}

	vals := make([]uint64, 10)
	for i := 0; i < 10 && i+1 < len(fields); i++ {
		v, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return model.CPUCounters{}, fmt.Errorf("%w: parse %s field %d: %v", ErrSourceUnavailable, path, i+1, err)
		}
		vals[i] = v
	}
	return model.CPUCounters{
		User:      vals[0],
		Nice:      vals[1],
		System:    vals[2],
		Idle:      vals[3],
		Iowait:    vals[4],
		IRQ:       vals[5],
		SoftIRQ:   vals[6],
		Steal:     vals[7],
		Guest:     vals[8],
		GuestNice: vals[9],
		Taken:     time.Now(),
	}, nil
}

// Processes enumerates <root>/<pid>/stat for every numeric directory entry.
// A process that exits mid-enumeration is skipped; partial success is the
// normal case. Only an unreadable enumeration root is an error.
func (r *Reader) Processes() (model.ProcessSnapshot, error) {
	entries, err := os.ReadDir(r.root())
	if err != nil {
		return model.ProcessSnapshot{}, fmt.Errorf("%w: list %s: %v", ErrSourceUnavailable, r.root(), err)
	}

	snap := model.ProcessSnapshot{
		Procs: make(map[int]model.ProcessStat, len(entries)),
		Taken: time.Now(),
	}
	users := make(map[string]string) // uid -> username, per capture
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}
		st, ok := r.readProcessStat(pid)
		if !ok {
			continue
		}
		st.User = r.processOwner(pid, users)
		snap.Procs[pid] = st
	}
	return snap, nil
}

// processOwner resolves the owning username of a pid from its status
// file, falling back to the raw uid and then to a placeholder. Failures
// here never drop the process.
func (r *Reader) processOwner(pid int, cache map[string]string) string {
	data, err := os.ReadFile(filepath.Join(r.root(), strconv.Itoa(pid), "status"))
	if err != nil {
		return placeholderName
	}
	uid, ok := parseStatusUID(string(data))
	if !ok {
		return placeholderName
	}
	if name, ok := cache[uid]; ok {
		return name
	}
	name := usernameForUID(uid)
	cache[uid] = name
	return name
}

// parseStatusUID extracts the real uid (first value) from the Uid line of
// a /proc/<pid>/status file.
func parseStatusUID(s string) (string, bool) {
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line[len("Uid:"):])
		if len(fields) == 0 {
			return "", false
		}
		return fields[0], true
	}
	return "", false
}

func usernameForUID(uid string) string {
	if u, err := user.LookupId(uid); err == nil {
		return u.Username
	}
	return uid
}

func (r *Reader) readProcessStat(pid int) (model.ProcessStat, bool) {
	data, err := os.ReadFile(filepath.Join(r.root(), strconv.Itoa(pid), "stat"))
	if err != nil {
		return model.ProcessStat{}, false
	}
	name, utime, stime, ok := parseStatLine(string(data))
	if !ok {
		return model.ProcessStat{}, false
	}
	return model.ProcessStat{PID: pid, Name: name, Ticks: utime + stime}, true
}

// parseStatLine splits a /proc/<pid>/stat line. The comm field sits between
// the first '(' and the LAST ')' because names may themselves contain
// spaces and parentheses; utime and stime are the 12th and 13th fields
// after the closing paren.
func parseStatLine(line string) (name string, utime, stime uint64, ok bool) {
	start := strings.IndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if start == -1 || end == -1 || end < start {
		return "", 0, 0, false
	}
	name = line[start+1 : end]
	if name == "" {
		name = placeholderName
	}

	rest := strings.Fields(line[end+1:])
	// rest[0] is the state; utime/stime are rest[11]/rest[12].
	if len(rest) < 13 {
		return "", 0, 0, false
	}
	utime, err := strconv.ParseUint(rest[11], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	stime, err = strconv.ParseUint(rest[12], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	return name, utime, stime, true
}

// LogicalCores returns the logical CPU count used to scale per-process
// percentages.
func LogicalCores() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
