package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	"TSDB/internal/platform/scheduler"
	"github.com/davecgh/go-spew/spew"
)

const (
	promptText  = "db > "
	recordUsage = "<sensor_name> <timestamp> <value> <timeseries_id> [fc1_flag]"
)

type IntervalSetter interface {
	SetInterval(interval time.Duration)
}

// Prompt is the interactive command loop of the server process.
type Prompt struct {
	save      *service.SaveRecordService
	update    *service.UpdateRecordService
	query     *service.QueryRecordsService
	sweep     *service.FaultSweepService
	scheduler IntervalSetter
	dumper    *spew.ConfigState
}

func NewPrompt(save *service.SaveRecordService, update *service.UpdateRecordService,
	query *service.QueryRecordsService, sweep *service.FaultSweepService,
	sweepScheduler *scheduler.SweepScheduler) *Prompt {
	return newPrompt(save, update, query, sweep, sweepScheduler)
}

func newPrompt(save *service.SaveRecordService, update *service.UpdateRecordService,
	query *service.QueryRecordsService, sweep *service.FaultSweepService,
	scheduler IntervalSetter) *Prompt {
	return &Prompt{
		save:      save,
		update:    update,
		query:     query,
		sweep:     sweep,
		scheduler: scheduler,
		dumper: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		},
	}
}

// Run reads commands from in until ".exit" or end of input.
func (p *Prompt) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptText)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if exit := p.execute(strings.TrimSpace(scanner.Text()), out); exit {
			return nil
		}
	}
}

func (p *Prompt) execute(input string, out io.Writer) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "insert":
		record, err := parseRecord(parts[1:])
		if err != nil {
			fmt.Fprintf(out, "Usage: insert %s (%v)\n", recordUsage, err)
			return false
		}
		result := p.save.Execute(service.SaveRecordCommand{Record: record})
		switch {
		case errors.Is(result.Err, domain.ErrCapacityExceeded):
			fmt.Fprintln(out, "Error: Table Full")
		case result.Err != nil:
			fmt.Fprintf(out, "Error: %v\n", result.Err)
		default:
			fmt.Fprintln(out, "Inserted successfully")
		}

	case "update":
		record, err := parseRecord(parts[1:])
		if err != nil {
			fmt.Fprintf(out, "Usage: update %s (%v)\n", recordUsage, err)
			return false
		}
		result := p.update.Execute(service.UpdateRecordCommand{Record: record})
		switch {
		case errors.Is(result.Err, domain.ErrNotFound):
			fmt.Fprintln(out, "Error: Row not found")
		case result.Err != nil:
			fmt.Fprintf(out, "Error: %v\n", result.Err)
		default:
			fmt.Fprintln(out, "Updated successfully")
		}

	case "select":
		if len(parts) != 4 {
			fmt.Fprintln(out, "Usage: select <timeseries_id> <start_time> <end_time>")
			return false
		}
		result := p.query.Execute(service.QueryRecordsQuery{SeriesID: parts[1], Start: parts[2], End: parts[3]})
		if result.Err != nil {
			fmt.Fprintf(out, "Error: %v\n", result.Err)
			return false
		}
		for _, record := range result.Records {
			p.dumper.Fdump(out, record)
		}
		fmt.Fprintf(out, "(%d rows)\n", len(result.Records))

	case "sweep":
		result := p.sweep.Execute(service.FaultSweepCommand{})
		if result.Err != nil {
			fmt.Fprintf(out, "Error: %v\n", result.Err)
			return false
		}
		fmt.Fprintf(out, "Flagged %d rows\n", result.Flagged)

	case "set_interval":
		if len(parts) != 2 {
			fmt.Fprintln(out, "Usage: set_interval <seconds>")
			return false
		}
		seconds, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			fmt.Fprintln(out, "Invalid interval value.")
			return false
		}
		p.scheduler.SetInterval(time.Duration(seconds) * time.Second)
		fmt.Fprintf(out, "Interval set to %d seconds.\n", seconds)

	case ".exit":
		fmt.Fprintln(out, "Exiting...")
		return true

	default:
		fmt.Fprintf(out, "Unrecognized command: '%s'\n", input)
	}
	return false
}

func parseRecord(args []string) (domain.Record, error) {
	if len(args) < 4 || len(args) > 5 {
		return domain.Record{}, fmt.Errorf("expected 4 or 5 arguments, got %d", len(args))
	}
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid value %q", args[2])
	}
	record := domain.Record{
		SensorName: args[0],
		Timestamp:  args[1],
		Value:      value,
		SeriesID:   args[3],
	}
	if len(args) == 5 {
		flag, err := strconv.ParseUint(args[4], 10, 8)
		if err != nil {
			return domain.Record{}, fmt.Errorf("invalid fc1_flag %q", args[4])
		}
		record.FaultFlag = uint8(flag)
	}
	return record, nil
}
