package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only audit-log record. Hash covers the previous entry's
// hash plus this entry's payload, forming a tamper-evident chain.
type Entry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Ticker    string            `json:"ticker"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`
	PrevHash  string            `json:"prev_hash"`
	Hash      string            `json:"hash"`
}

// Log is a hash-chained JSON-lines audit trail. Writes are serialized by a
// single mutex to preserve chain ordering; the log is a best-effort side
// channel and callers treat append failures as non-fatal.
type Log struct {
	mu       sync.Mutex
	path     string
	prevHash string
}

// OpenLog opens (or creates) the audit log at path and resumes the hash
// chain from the last written entry.
func OpenLog(path string) (*Log, error) {
	l := &Log{path: path}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var last string
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if last != "" {
		var e Entry
		if err := json.Unmarshal([]byte(last), &e); err == nil {
			l.prevHash = e.Hash
		}
	}
	return l, nil
}

// Append writes one chained entry. The entry's ID, timestamp, previous hash
// and hash are filled in here.
func (l *Log) Append(ticker, action string, details map[string]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Ticker:    ticker,
		Action:    action,
		Details:   details,
		PrevHash:  l.prevHash,
	}
	e.Hash = chainHash(l.prevHash, e)

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	l.prevHash = e.Hash
	return nil
}

// Verify re-walks the file and reports whether every entry's hash matches
// its payload and predecessor.
func (l *Log) Verify() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	prev := ""
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return false, nil
		}
		if e.PrevHash != prev || chainHash(prev, e) != e.Hash {
			return false, nil
		}
		prev = e.Hash
	}
	return true, scanner.Err()
}

// chainHash hashes the previous hash plus the entry payload, excluding the
// Hash field itself.
func chainHash(prevHash string, e Entry) string {
	e.Hash = ""
	payload, _ := json.Marshal(e)
	sum := sha256.Sum256(append([]byte(prevHash), payload...))
	return hex.EncodeToString(sum[:])
}
