package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/change-calculator/internal/amount"
	"github.com/eugenenazirov/change-calculator/internal/calculator"
	"github.com/eugenenazirov/change-calculator/internal/config"
	"github.com/eugenenazirov/change-calculator/internal/logging"
	"github.com/eugenenazirov/change-calculator/internal/render"
)

const (
	exitOK = iota
	exitValidation
	exitUsage
	exitFailure
)

// defaultLogLevel keeps the CLI quiet unless LOG_LEVEL, the config file or
// --log-level ask for more.
const defaultLogLevel = "warn"

var newLogger = logging.New

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("change", "Change Calculator - prints the coins and banknotes to hand back")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(nil)

	output := app.Flag("output", "Output format").Short('o').Default(string(render.FormatText)).Enum(render.Formats()...)
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	denominationsStr := app.Flag("denominations", "Comma-separated denomination table (must include 1)").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").String()
	chargedRaw := app.Arg("charged", "Amount charged, in the smallest currency unit").Required().String()
	givenRaw := app.Arg("given", "Amount given, in the smallest currency unit").Required().String()

	if _, err := app.Parse(args); err != nil {
		app.Errorf("%s, try --help", err)
		return exitUsage
	}

	overrides := &config.CLIOverrides{
		ConfigFile:      *configFile,
		DefaultLogLevel: defaultLogLevel,
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}
	if *denominationsStr != "" {
		overrides.DenominationsStr = denominationsStr
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return exitFailure
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	format, err := render.ParseFormat(*output)
	if err != nil {
		app.Errorf("%s", err)
		return exitUsage
	}

	charged, given, err := amount.ParsePair(*chargedRaw, *givenRaw)
	if err != nil {
		app.Errorf("%s", err)
		return exitUsage
	}

	denoms, err := calculator.NewDenominations(cfg.Denominations...)
	if err != nil {
		logger.Error("invalid denomination table", zap.Error(err))
		return exitFailure
	}

	result, err := calculator.New(denoms).Charge(charged, given)
	if err != nil {
		if calculator.IsValidationError(err) {
			if writeErr := render.WriteValidationError(stdout, err); writeErr != nil {
				logger.Error("failed to write output", zap.Error(writeErr))
				return exitFailure
			}
			return exitValidation
		}
		logger.Error("charge failed", zap.Error(err))
		return exitFailure
	}

	logger.Debug("change computed",
		zap.Int64("amount_charged", int64(charged)),
		zap.Int64("amount_given", int64(given)),
		zap.Int64("pieces", result.Pieces()),
	)

	if err := render.Write(stdout, format, result); err != nil {
		logger.Error("failed to write output", zap.Error(err))
		return exitFailure
	}
	return exitOK
}
