// Package cli implements the bioctl command line app and its local HTTP API.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/biosentience/bioctl/pkg/config"
	"github.com/biosentience/bioctl/pkg/data"
	"github.com/biosentience/bioctl/pkg/engine"
	"github.com/biosentience/bioctl/pkg/logging"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	name         = "bioctl"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite database file",
	}

	modelFileFlag = &cli.StringFlag{
		Name:  "models",
		Usage: "Path to the trained model artifact (JSON)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath    string
	ModelFile string
	Debug     bool
	DB        *sql.DB
	Engine    *engine.Engine
}

func getConfig(c *cli.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 name,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Score biological measurement records and explain the predictions",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
			modelFileFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			importCmd,
			samplesCmd,
			validateCmd,
			analyzeCmd,
			simulateCmd,
			describeCmd,
			serverCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			dir, err := config.GetOrCreateHomeDir(name)
			if err != nil {
				return fmt.Errorf("resolving home dir: %w", err)
			}
			conf, err := config.ReadOrCreate(dir)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			if !c.Bool(debugFlag.Name) && conf.LogLevel != "" {
				logging.SetDefaultCLILogger(conf.LogLevel)
			}

			dbPath := c.String(dbFilePathFlag.Name)
			if dbPath == "" {
				dbPath = conf.DBPath
			}
			modelFile := c.String(modelFileFlag.Name)
			if modelFile == "" {
				modelFile = conf.ModelFile
			}

			if err := data.Init(dbPath); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}
			db, err := data.GetDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			reg, err := engine.LoadRegistry(modelFile)
			if err != nil {
				db.Close()
				return fmt.Errorf("loading models: %w", err)
			}
			eng, err := engine.New(reg)
			if err != nil {
				db.Close()
				return fmt.Errorf("creating engine: %w", err)
			}
			slog.Debug("models loaded", "features", reg.NumFeatures(), "path", modelFile)

			c.App.Metadata[appConfigKey] = &appConfig{
				DBPath:    dbPath,
				ModelFile: modelFile,
				Debug:     c.Bool(debugFlag.Name),
				DB:        db,
				Engine:    eng,
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
