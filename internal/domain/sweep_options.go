package domain

import "fmt"

// SweepOptions selects the rows a fault sweep inspects and the value above
// which they get flagged.
type SweepOptions struct {
	SeriesID    string  `json:"timeseries_id"`
	WindowStart string  `json:"start_time"`
	WindowEnd   string  `json:"end_time"`
	Threshold   float64 `json:"threshold"`
}

func (o SweepOptions) Validate() error {
	if o.SeriesID == "" {
		return fmt.Errorf("%w: sweep requires a timeseries_id", ErrInvalidRecord)
	}
	if o.WindowStart > o.WindowEnd {
		return fmt.Errorf("%w: sweep window starts after it ends (%q > %q)",
			ErrInvalidRecord, o.WindowStart, o.WindowEnd)
	}
	return nil
}

// Merge returns o with every non-zero field of override applied on top.
func (o SweepOptions) Merge(override SweepOptions) SweepOptions {
	if override.SeriesID != "" {
		o.SeriesID = override.SeriesID
	}
	if override.WindowStart != "" {
		o.WindowStart = override.WindowStart
	}
	if override.WindowEnd != "" {
		o.WindowEnd = override.WindowEnd
	}
	if override.Threshold != 0 {
		o.Threshold = override.Threshold
	}
	return o
}
