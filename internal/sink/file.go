package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileSink appends result lines to a flat print file and can scan a set of
// batch files for a card's line.
type FileSink struct {
	mu        sync.Mutex
	path      string
	artifacts []string
}

// NewFileSink creates a sink appending to path. artifacts lists the batch
// files consulted by Find; an empty list disables the artifact check, so
// Find always reports found.
func NewFileSink(path string, artifacts []string) *FileSink {
	return &FileSink{
		path:      path,
		artifacts: artifacts,
	}
}

func (f *FileSink) Record(ctx context.Context, line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("sink: open result file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("sink: append result line: %w", err)
	}
	return nil
}

// Find linearly scans the configured batch files for a line containing the
// card number. Substring match, not parsing: the batch format is not ours.
// Unreadable files are skipped.
func (f *FileSink) Find(ctx context.Context, cardNumber string) (bool, error) {
	if len(f.artifacts) == 0 {
		return true, nil
	}

	for _, path := range f.artifacts {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		found, err := scanFile(path, cardNumber)
		if err != nil {
			continue
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func scanFile(path, needle string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), needle) {
			return true, nil
		}
	}
	return false, scanner.Err()
}
