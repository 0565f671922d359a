package reach

import "time"

// Synchronisation of episode starts across independent processes
const (
	SyncInterval        = 4 * time.Second
	DefaultSyncAccuracy = 10 * time.Millisecond
)

// Clock tells the time and sleeps
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the current goroutine for d
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// SleepUntil blocks until clock reaches t, sleeping at most accuracy at
// a time. A non-positive accuracy sleeps the whole remaining time at
// once.
func SleepUntil(clock Clock, t time.Time, accuracy time.Duration) {
	for now := clock.Now(); now.Before(t); now = clock.Now() {
		d := t.Sub(now)
		if accuracy > 0 && d > accuracy {
			d = accuracy
		}
		clock.Sleep(d)
	}
}

// nextMinute returns the start of the minute after now
func nextMinute(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(),
		now.Minute()+1, 0, 0, now.Location())
}
