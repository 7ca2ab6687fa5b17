package cli

import (
	"log/slog"

	"github.com/biosentience/bioctl/pkg/data"
	"github.com/urfave/cli/v2"
)

var (
	importFileFlag = &cli.StringFlag{
		Name:     "file",
		Usage:    "Path to a CSV file of measurement records",
		Required: true,
	}

	importCmd = &cli.Command{
		Name:      "import",
		Aliases:   []string{"i"},
		Usage:     "Import a CSV of measurement records into the local database",
		UsageText: `bioctl import --file measurements.csv`,
		Action:    cmdImport,
		Flags: []cli.Flag{
			importFileFlag,
		},
	}
)

func cmdImport(c *cli.Context) error {
	cfg := getConfig(c)

	res, err := data.ImportCSV(cfg.DB, c.String(importFileFlag.Name), cfg.Engine.Registry().Features())
	if err != nil {
		return err
	}

	if !res.HasRequiredFeatures {
		slog.Warn("imported file does not cover the model feature schema, records will fail validation",
			"file", res.File)
	}

	return encode(res)
}
