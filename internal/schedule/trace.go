package schedule

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadTrace reads a persisted arrival trace: newline-delimited ascending
// integers, microsecond offsets from run start. The offsets are consumed
// verbatim and never re-sorted; a descending pair is an error.
func LoadTrace(path string) (Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	var s Schedule
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		us, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		s = append(s, time.Duration(us)*time.Microsecond)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("trace %s: %w", path, err)
	}
	return s, nil
}

// Repeat replays the schedule n times in total. Repetition i is shifted by
// i times the last offset, preserving the arrival shape while extending the
// run.
func (s Schedule) Repeat(n int) Schedule {
	if n <= 1 || len(s) == 0 {
		return s
	}
	shift := s.Horizon()
	out := make(Schedule, 0, len(s)*n)
	for i := 0; i < n; i++ {
		base := time.Duration(i) * shift
		for _, offset := range s {
			out = append(out, base+offset)
		}
	}
	return out
}
