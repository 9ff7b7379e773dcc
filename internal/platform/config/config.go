package config

import (
	"flag"
	"time"

	"TSDB/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	portCmd     = flag.Int("port", 0, "HTTP server port (overrides HTTP_SERVER_PORT)")
	dataFileCmd = flag.String("db", "", "backing file of the table (overrides DATA_FILE)")
)

type Config struct {
	ServerHost     string
	ServerPort     int
	ZmqApiPort     int
	DataFile       string
	SyncOnFlush    bool
	SweepInterval  time.Duration
	Sweep          domain.SweepOptions
	PromptEnabled  bool
	DeploymentMode string
}

func LoadConfig() Config {
	godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_SERVER_HOST", "127.0.0.1")
	v.SetDefault("HTTP_SERVER_PORT", 8000)
	v.SetDefault("ZMQ_API_PORT", 0)
	v.SetDefault("DATA_FILE", "brick_timeseries.db")
	v.SetDefault("SYNC_ON_FLUSH", true)
	v.SetDefault("SWEEP_INTERVAL", 5*time.Minute)
	// no default series: scheduled sweeps stay paused until one is configured
	v.SetDefault("SWEEP_SERIES_ID", "")
	v.SetDefault("SWEEP_WINDOW_START", "2024-08-28T12:00:00Z")
	v.SetDefault("SWEEP_WINDOW_END", "2024-08-28T12:05:00Z")
	v.SetDefault("SWEEP_THRESHOLD", 0.95)
	v.SetDefault("PROMPT_ENABLED", true)
	v.SetDefault("DEPLOYMENT_MODE", "devel")

	cfg := Config{
		ServerHost:    v.GetString("HTTP_SERVER_HOST"),
		ServerPort:    v.GetInt("HTTP_SERVER_PORT"),
		ZmqApiPort:    v.GetInt("ZMQ_API_PORT"),
		DataFile:      v.GetString("DATA_FILE"),
		SyncOnFlush:   v.GetBool("SYNC_ON_FLUSH"),
		SweepInterval: v.GetDuration("SWEEP_INTERVAL"),
		Sweep: domain.SweepOptions{
			SeriesID:    v.GetString("SWEEP_SERIES_ID"),
			WindowStart: v.GetString("SWEEP_WINDOW_START"),
			WindowEnd:   v.GetString("SWEEP_WINDOW_END"),
			Threshold:   v.GetFloat64("SWEEP_THRESHOLD"),
		},
		PromptEnabled:  v.GetBool("PROMPT_ENABLED"),
		DeploymentMode: v.GetString("DEPLOYMENT_MODE"),
	}
	if *portCmd > 0 {
		cfg.ServerPort = *portCmd
	}
	if *dataFileCmd != "" {
		cfg.DataFile = *dataFileCmd
	}
	return cfg
}

func (c Config) IsProduction() bool {
	return c.DeploymentMode == "production"
}
