package ports

import "time"

// BalanceRecorder observes the outcome of each computation (e.g., metrics).
type BalanceRecorder interface {
	Observe(outcome string, elapsed time.Duration)
}
