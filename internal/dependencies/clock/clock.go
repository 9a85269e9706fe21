package clock

import "time"

// Clock abstracts the time source so lobby timestamps and eviction
// can be driven by a fixed clock in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func New() *SystemClock { return &SystemClock{} }

func (c *SystemClock) Now() time.Time { return time.Now() }
