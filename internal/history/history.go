// Package history implements the plain-text query history file: one
// query per line, capped at a configured size, with in-session edits to
// older entries kept only in memory (never written back) until a new
// query is appended. Grounded on history.go's History/NewHistory/
// append/override/current/previous/next, modernized from ioutil to os
// for file I/O.
package history

import (
	"errors"
	"os"
	"strings"
)

// History is one session's view of a query history file.
type History struct {
	path     string
	lines    []string
	modified map[int]string
	maxSize  int
	cursor   int
}

// Open reads path (creating it, empty, if it doesn't exist yet) and
// returns a History capped at maxSize entries.
func Open(path string, maxSize int) (*History, error) {
	fmtError := func(e error) error {
		if os.IsPermission(e) {
			return errors.New("permission denied: " + path)
		}
		return errors.New("invalid history file: " + e.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte{}
			if err := os.WriteFile(path, data, 0600); err != nil {
				return nil, fmtError(err)
			}
		} else {
			return nil, fmtError(err)
		}
	}

	lines := strings.Split(strings.Trim(string(data), "\n"), "\n")
	if len(lines[len(lines)-1]) > 0 {
		lines = append(lines, "")
	}
	return &History{
		path:     path,
		maxSize:  maxSize,
		lines:    lines,
		modified: make(map[int]string),
		cursor:   len(lines) - 1,
	}, nil
}

// Append adds line as the newest history entry and persists the file,
// trimming the oldest entries once maxSize is exceeded. Empty lines are
// never appended.
func (h *History) Append(line string) error {
	if len(line) == 0 {
		return nil
	}
	lines := append(h.lines[:len(h.lines)-1], line)
	if len(lines) > h.maxSize {
		lines = lines[len(lines)-h.maxSize:]
	}
	h.lines = append(lines, "")
	h.modified = make(map[int]string)
	h.cursor = len(h.lines) - 1
	return os.WriteFile(h.path, []byte(strings.Join(h.lines, "\n")), 0600)
}

// Override replaces the text at the current cursor position. Edits to
// the newest (not-yet-appended) slot update the in-memory buffer
// directly; edits to an older entry are kept only in the modified
// overlay and never reach the file.
func (h *History) Override(str string) {
	if h.cursor == len(h.lines)-1 {
		h.lines[h.cursor] = str
	} else if h.cursor < len(h.lines)-1 {
		h.modified[h.cursor] = str
	}
}

// Current returns the text at the cursor, preferring an in-memory
// override over the file's line.
func (h *History) Current() string {
	if str, ok := h.modified[h.cursor]; ok {
		return str
	}
	return h.lines[h.cursor]
}

// Previous moves the cursor one entry older (clamped at the oldest) and
// returns the new Current.
func (h *History) Previous() string {
	if h.cursor > 0 {
		h.cursor--
	}
	return h.Current()
}

// Next moves the cursor one entry newer (clamped at the newest, empty
// slot) and returns the new Current.
func (h *History) Next() string {
	if h.cursor < len(h.lines)-1 {
		h.cursor++
	}
	return h.Current()
}
