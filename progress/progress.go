package progress

import (
	"github.com/pterm/pterm"
)

// Bar tracks archive scanning progress on the terminal. It stays silent
// unless the log level is "info": at debug the per-record log lines would
// fight with the bar, and at warn/error the user asked for quiet output.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	enabled bool
}

// New creates a progress bar over total records.
func New(total int, logLevel string) *Bar {
	bar := &Bar{enabled: logLevel == "info" && total > 0}
	if !bar.enabled {
		return bar
	}

	pb, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Parsing records").
		Start()
	if err != nil {
		bar.enabled = false
		return bar
	}
	bar.pb = pb

	return bar
}

// Increment advances the bar by one record.
func (b *Bar) Increment() {
	if !b.enabled {
		return
	}
	b.pb.Increment()
}

// Finish stops the bar and clears its terminal state.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}
	_, _ = b.pb.Stop()
}
