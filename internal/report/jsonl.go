package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/kamusis/agent-scout/internal/interview"
)

const lockRetry = 100 * time.Millisecond

// JSONL appends one JSON object per result to a file. Writers in other
// processes are serialized through a sibling .lock file.
type JSONL struct {
	path string
	lock *flock.Flock
}

// OpenJSONL prepares path for appending, creating parent directories.
func OpenJSONL(path string) (*JSONL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create report dir: %w", err)
	}
	return &JSONL{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the file results are appended to.
func (j *JSONL) Path() string { return j.path }

func (j *JSONL) Write(ctx context.Context, res *interview.Result) error {
	line, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cannot encode result: %w", err)
	}
	line = append(line, '\n')

	locked, err := j.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("cannot lock %s: %w", j.path, err)
	}
	if !locked {
		return fmt.Errorf("cannot lock %s", j.path)
	}
	defer func() { _ = j.lock.Unlock() }()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", j.path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("cannot append to %s: %w", j.path, err)
	}
	return f.Close()
}

func (j *JSONL) Close() error { return nil }

// ReadJSONL returns the last n results in path, newest first. A missing file
// yields no results. n <= 0 means all.
func ReadJSONL(path string, n int) ([]interview.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var all []interview.Result
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r interview.Result
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		all = append(all, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	out := make([]interview.Result, 0, len(all))
	for i := len(all) - 1; i >= 0 && (n <= 0 || len(out) < n); i-- {
		out = append(out, all[i])
	}
	return out, nil
}
