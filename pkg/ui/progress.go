package ui

import (
	"fmt"
	"time"
)

// StatusTracker keeps track of position and pace within one category run
type StatusTracker struct {
	Total     int
	Current   int
	Fetched   int
	StartTime time.Time
}

// NewStatusTracker creates a tracker for total review entries
func NewStatusTracker(total int) *StatusTracker {
	return &StatusTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Advance moves to the next review entry
func (st *StatusTracker) Advance() {
	st.Current++
}

// IncrementFetched counts one download attempt
func (st *StatusTracker) IncrementFetched() {
	st.Fetched++
}

// Position returns the current entry as "[current/total]", padded to the
// width of total
func (st *StatusTracker) Position() string {
	width := len(fmt.Sprint(st.Total))
	return fmt.Sprintf("[%*d/%d]", width, st.Current, st.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetDownloadRate returns the average download attempts per minute
func (st *StatusTracker) GetDownloadRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Fetched) / elapsed
}
