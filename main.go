package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"FlightDelayEDA/src/analysis"
	"FlightDelayEDA/src/config"
	"FlightDelayEDA/src/datapush"
	"FlightDelayEDA/src/datasource/file"
	"FlightDelayEDA/src/pipeline"
	"FlightDelayEDA/src/processor"
	"FlightDelayEDA/src/storage"

	"github.com/robfig/cron"
)

func main() {
	configDir := flag.String("config", "config", "directory holding config.json and dataconfig.json")
	flightsPath := flag.String("flights", "", "flights table (.csv or .xlsx), overrides config")
	airportsPath := flag.String("airports", "", "airports table (.csv or .xlsx), overrides config")
	airlinesPath := flag.String("airlines", "", "optional airline name mapping, overrides config")
	outPath := flag.String("out", "", "xlsx report path, overrides config")
	watch := flag.Bool("watch", false, "re-run the pipeline when an input file changes")
	schedule := flag.Bool("schedule", false, "re-run the pipeline on the configured interval")
	flag.Parse()

	cfg, dcfg, err := config.LoadConfig(*configDir, "config.json", "dataconfig.json")
	if err != nil {
		// Library defaults keep one-shot runs working without config files.
		log.Printf("config not loaded (%v), using defaults", err)
		cfg = config.DefaultConfig()
		dcfg = config.DefaultDataConfig()
	}
	paths := inputPaths{
		flights:  filepath.Join(cfg.DataDir, cfg.FlightsFile),
		airports: filepath.Join(cfg.DataDir, cfg.AirportsFile),
		out:      cfg.OutputFile,
	}
	if cfg.AirlinesFile != "" {
		paths.airlines = filepath.Join(cfg.DataDir, cfg.AirlinesFile)
	}
	if *flightsPath != "" {
		paths.flights = *flightsPath
	}
	if *airportsPath != "" {
		paths.airports = *airportsPath
	}
	if *airlinesPath != "" {
		paths.airlines = *airlinesPath
	}
	if *outPath != "" {
		paths.out = *outPath
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	run := func() {
		t1 := time.Now()
		if err := runOnce(cfg, dcfg, paths, logger); err != nil {
			logger.Error(fmt.Sprintf("pipeline run failed: %v", err))
			return
		}
		logger.Info(fmt.Sprintf("pipeline run finished in %v", time.Since(t1)))
	}

	run()

	switch {
	case *watch:
		dir := filepath.Dir(paths.flights)
		monitor, err := file.NewFileMonitor(dir)
		if err != nil {
			logger.Error("file monitor: " + err.Error())
			return
		}
		defer monitor.Close()
		logger.Info("watching " + dir + " for rewritten inputs")
		if err := monitor.Watch(func(path string) {
			logger.Info("input changed: " + path)
			run()
		}); err != nil {
			logger.Error("file monitor: " + err.Error())
		}
	case *schedule:
		c := cron.New()
		every := fmt.Sprintf("@every %s", time.Duration(cfg.CheckInterval))
		if err := c.AddFunc(every, run); err != nil {
			logger.Error("schedule: " + err.Error())
			return
		}
		c.Start()
		defer c.Stop()
		logger.Info("scheduled pipeline runs: " + every)
		select {}
	}
}

type inputPaths struct {
	flights  string
	airports string
	airlines string
	out      string
}

func runOnce(cfg *config.Config, dcfg *config.DataConfig, paths inputPaths, logger *storage.Logger) error {
	tables, err := file.LoadTables(paths.flights, paths.airports, cfg.SheetName)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("loaded %s flight rows, %s airports",
		analysis.FormatCount(tables.Flights.Nrow()),
		analysis.FormatCount(tables.Airports.Nrow())))

	cleaner := &processor.Cleaner{
		Essential: dcfg.Essential,
		Prune:     dcfg.Prune,
	}
	if cfg.Scope.Column != "" {
		cleaner.Scope = &processor.ScopeFilter{Column: cfg.Scope.Column, Value: cfg.Scope.Value}
	}
	deriver := &processor.FeatureDeriver{
		SeverityMinor: dcfg.SeverityMinor,
		SeverityMajor: dcfg.SeverityMajor,
		CapSigma:      dcfg.CapSigma,
	}
	checker := &processor.IntegrityChecker{}

	df, err := pipeline.New(cleaner, deriver, checker).Run(context.Background(), tables.Flights)
	if err != nil {
		return err
	}

	report := checker.Report
	logger.Info(fmt.Sprintf(
		"cleaned table: %s rows, %d duplicates, %d negative-distance, %d negative-delay, %d flagged",
		analysis.FormatCount(report.Rows), report.DuplicateRows,
		report.NegativeDistance, report.NegativeDelay, report.FlaggedRows))

	for col, frac := range processor.Completeness(df) {
		if frac < 1 {
			logger.Warning(fmt.Sprintf("column %s only %.1f%% complete", col, frac*100))
		}
	}

	var airlineNames map[string]string
	if paths.airlines != "" {
		adf, err := file.ReadTable(paths.airlines, cfg.SheetName)
		if err != nil {
			logger.Warning("airline mapping not loaded: " + err.Error())
		} else {
			airlineNames = file.AirlineNames(adf)
		}
	}

	byAirline, err := analysis.ByAirline(df, airlineNames)
	if err != nil {
		return err
	}
	byHour, err := analysis.ByHour(df)
	if err != nil {
		return err
	}
	byWeekend, err := analysis.ByWeekend(df)
	if err != nil {
		return err
	}
	byOrigin, err := analysis.ByOriginAirport(df, file.AirportIndex(tables.Airports))
	if err != nil {
		return err
	}

	stats := analysis.DescribeDelay(df, "DEPARTURE_DELAY")
	logger.Info(fmt.Sprintf("departure delay: mean=%.2f stddev=%.2f median=%.2f p95=%.2f",
		stats.Mean, stats.StdDev, stats.Median, stats.P95))

	return datapush.ExportWorkbook(paths.out, []datapush.Sheet{
		{Name: "Cleaned", Table: df},
		{Name: "ByAirline", Table: byAirline},
		{Name: "ByHour", Table: byHour},
		{Name: "ByWeekend", Table: byWeekend},
		{Name: "ByOrigin", Table: byOrigin},
	})
}
