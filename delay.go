package nrf24

import "time"

// SleepDelay implements Delay with time.Sleep. It is the provider the
// bundled adapters install; supply your own when running on a scheduler
// whose sleep granularity cannot honor microsecond waits.
type SleepDelay struct{}

func (SleepDelay) Ms(n uint32) { time.Sleep(time.Duration(n) * time.Millisecond) }
func (SleepDelay) Us(n uint32) { time.Sleep(time.Duration(n) * time.Microsecond) }
