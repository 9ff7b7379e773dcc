package main

import (
	"flag"
	"fmt"
	"os"

	"TSDB/internal/domain"
	"TSDB/internal/platform/client"
)

func main() {
	url := flag.String("url", "http://127.0.0.1:8000", "telemetry server base url")
	series := flag.String("series", "8f541ba4-c437-43ba-ba1d-5c946583fe54", "time series id")
	threshold := flag.Float64("threshold", 0.95, "fault threshold")
	flag.Parse()

	cli := client.NewTelemetryClient(*url)

	samples := []domain.Record{
		{SensorName: "Sa_FanSpeed", Timestamp: "2024-08-28T12:00:00Z", Value: 0.8, SeriesID: *series},
		{SensorName: "Sa_FanSpeed", Timestamp: "2024-08-28T12:01:00Z", Value: 0.9, SeriesID: *series},
		{SensorName: "Sa_FanSpeed", Timestamp: "2024-08-28T12:02:00Z", Value: 1.0, SeriesID: *series},
	}
	for _, s := range samples {
		if err := cli.Insert(s); err != nil {
			fmt.Fprintf(os.Stderr, "insert %s: %v\n", s.Timestamp, err)
			os.Exit(1)
		}
		fmt.Printf("Inserted %s = %v\n", s.Timestamp, s.Value)
	}

	records, err := cli.Query(*series, "2024-08-28T12:00:00Z", "2024-08-28T12:03:00Z")
	if err != nil {
		fmt.Fprintf(os.Stderr, "query: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Fetched %d records\n", len(records))

	faults := 0
	for _, r := range records {
		if r.Value > *threshold {
			faults++
			fmt.Printf("Fault detected at %s: %s = %v\n", r.Timestamp, r.SensorName, r.Value)
		}
	}
	if faults == 0 {
		fmt.Println("No faults detected")
	}
}
