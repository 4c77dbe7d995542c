package signals

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	// DefaultColumn is the PPG export column holding heart rate.
	DefaultColumn = "hr_bpm"
	// EmptyReplayValue is yielded when the file has no data rows.
	EmptyReplayValue = 72.0
)

// CSVReplay replays one column of a CSV file, wrapping at the end.
type CSVReplay struct {
	mu   sync.Mutex
	rows []string
	next int
}

// LoadCSVReplay reads column from the CSV file at path. The first row is the header.
func LoadCSVReplay(path, column string) (*CSVReplay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signal file: %w", err)
	}
	defer f.Close()
	return NewCSVReplay(f, column)
}

// NewCSVReplay reads column from r. Without that column the replay behaves as an empty file.
func NewCSVReplay(r io.Reader, column string) (*CSVReplay, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &CSVReplay{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read signal header: %w", err)
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			idx = i
			break
		}
	}

	replay := &CSVReplay{}
	if idx < 0 {
		return replay, nil
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read signal row: %w", err)
		}
		cell := ""
		if idx < len(rec) {
			cell = rec[idx]
		}
		replay.rows = append(replay.rows, strings.TrimSpace(cell))
	}
	return replay, nil
}

// Len returns the number of data rows.
func (c *CSVReplay) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Read yields the next row's value. A cell that is not a number is an error;
// the cursor still advances.
func (c *CSVReplay) Read(context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.rows) == 0 {
		return EmptyReplayValue, nil
	}
	if c.next >= len(c.rows) {
		c.next = 0
	}
	cell := c.rows[c.next]
	c.next++

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: %w", c.next, err)
	}
	return v, nil
}
