package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the runtime settings of the EDA pipeline: where the raw
// tables live, where output goes, and the optional re-run schedule.
type Config struct {
	DataDir      string `json:"data_dir"`      // directory holding the raw tables
	FlightsFile  string `json:"flights_file"`  // flight records table
	AirportsFile string `json:"airports_file"` // airport reference table
	AirlinesFile string `json:"airlines_file"` // optional code -> display name table
	SheetName    string `json:"sheet_name"`    // sheet to read when an input is xlsx
	LogName      string `json:"log_name"`
	OutputFile   string `json:"output_file"` // xlsx report path

	CheckInterval Duration `json:"check_interval"` // re-run interval for scheduled mode

	// Scope is the coarse row-retention filter applied before cleaning,
	// e.g. Column "MONTH", Value "1" for a single calendar month. Empty
	// Column disables it.
	Scope struct {
		Column string `json:"column"`
		Value  string `json:"value"`
	} `json:"scope"`
}

// DataConfig is the data contract: which columns are identity/outcome
// fields, which get pruned, and the feature-derivation thresholds.
type DataConfig struct {
	Essential     []string `json:"essential"`
	Prune         []string `json:"prune"`
	SeverityMinor float64  `json:"severity_minor"` // delay <= minor -> level 0
	SeverityMajor float64  `json:"severity_major"` // delay <= major -> level 1
	CapSigma      float64  `json:"cap_sigma"`      // cap at mean + sigma*stddev
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
)

// LoadConfig reads both config files once per process.
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filepath.Join(jsonFolder, jsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}

	dcfg := DefaultDataConfig()
	data, err = os.ReadFile(filepath.Join(jsonFolder, dataJsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read data config file: %w", err)
	}
	if err := json.Unmarshal(data, dcfg); err != nil {
		return nil, nil, fmt.Errorf("parse data config: %w", err)
	}

	return cfg, dcfg, nil
}

// DefaultConfig returns the runtime defaults used when a field is absent
// from config.json.
func DefaultConfig() *Config {
	cfg := &Config{
		DataDir:      "data",
		FlightsFile:  "flights.csv",
		AirportsFile: "airports.csv",
		SheetName:    "Sheet1",
		LogName:      "app.log",
		OutputFile:   "delay_report.xlsx",
	}
	cfg.CheckInterval = Duration(24 * time.Hour)
	return cfg
}

// DefaultDataConfig returns the compiled-in data contract so the library
// packages work without any config files on disk.
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		Essential: []string{
			"AIRLINE",
			"ORIGIN_AIRPORT",
			"DESTINATION_AIRPORT",
			"SCHEDULED_DEPARTURE",
			"DEPARTURE_DELAY",
		},
		Prune: []string{
			"TAXI_OUT", "TAXI_IN",
			"WHEELS_OFF", "WHEELS_ON",
			"YEAR", "MONTH", "DAY", "DAY_OF_WEEK",
			"AIR_SYSTEM_DELAY", "SECURITY_DELAY", "AIRLINE_DELAY",
			"LATE_AIRCRAFT_DELAY", "WEATHER_DELAY",
			"CANCELLED", "DIVERTED", "CANCELLATION_REASON",
			"TAIL_NUMBER", "FLIGHT_NUMBER",
			"AIR_TIME",
		},
		SeverityMinor: 5,
		SeverityMajor: 45,
		CapSigma:      3,
	}
}

// Duration wraps time.Duration so config files can say "5m" or "24h".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
