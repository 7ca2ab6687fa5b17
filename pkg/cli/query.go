package cli

import (
	"github.com/biosentience/bioctl/pkg/data"
	"github.com/urfave/cli/v2"
)

const sampleListLimitDefault = 50

var (
	sampleIDFlag = &cli.Int64Flag{
		Name:  "id",
		Usage: "Stored sample id",
	}

	sampleLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of samples returned",
		Value: sampleListLimitDefault,
	}

	samplesCmd = &cli.Command{
		Name:    "samples",
		Aliases: []string{"s"},
		Usage:   "List imported samples, or show one by id",
		UsageText: `bioctl samples                 # list imported samples
   bioctl samples --id 7          # show one sample`,
		Action: cmdSamples,
		Flags: []cli.Flag{
			sampleIDFlag,
			sampleLimitFlag,
		},
	}
)

func cmdSamples(c *cli.Context) error {
	cfg := getConfig(c)

	if c.IsSet(sampleIDFlag.Name) {
		s, err := data.GetSample(cfg.DB, c.Int64(sampleIDFlag.Name))
		if err != nil {
			return err
		}
		return encode(s)
	}

	list, err := data.ListSamples(cfg.DB, c.Int(sampleLimitFlag.Name))
	if err != nil {
		return err
	}
	return encode(list)
}
