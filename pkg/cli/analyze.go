package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/biosentience/bioctl/pkg/data"
	"github.com/biosentience/bioctl/pkg/engine"
	"github.com/urfave/cli/v2"
)

var (
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: `Record as a JSON object of feature values, e.g. '{"gene_expr_level": 0.8, ...}'`,
	}

	allSamplesFlag = &cli.BoolFlag{
		Name:  "all",
		Usage: "Analyze every imported sample",
	}

	validateCmd = &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Check a record against the model feature schema",
		UsageText: `bioctl validate --input '{"gene_expr_level": 0.8, ...}'
   bioctl validate --id 7`,
		Action: cmdValidate,
		Flags: []cli.Flag{
			inputFlag,
			sampleIDFlag,
		},
	}

	analyzeCmd = &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Score a record with all three models and explain the result",
		UsageText: `bioctl analyze --input '{"gene_expr_level": 0.8, ...}'
   bioctl analyze --id 7
   bioctl analyze --all`,
		Action: cmdAnalyze,
		Flags: []cli.Flag{
			inputFlag,
			sampleIDFlag,
			allSamplesFlag,
		},
	}

	varyFeatureFlag = &cli.StringFlag{
		Name:     "feature",
		Usage:    "Feature to vary across the simulation",
		Required: true,
	}

	stepsFlag = &cli.IntFlag{
		Name:  "steps",
		Usage: "Number of simulation steps",
		Value: engine.SimulationStepsDefault,
	}

	rangeFlag = &cli.Float64Flag{
		Name:  "range",
		Usage: "Variation range around the base value (0.3 sweeps ±30%)",
		Value: engine.VariationRangeDefault,
	}

	simulateCmd = &cli.Command{
		Name:      "simulate",
		Aliases:   []string{"sim"},
		Usage:     "Sweep one feature through a range and project the predictions",
		UsageText: `bioctl simulate --id 7 --feature temperature --steps 10 --range 0.3`,
		Action:    cmdSimulate,
		Flags: []cli.Flag{
			inputFlag,
			sampleIDFlag,
			varyFeatureFlag,
			stepsFlag,
			rangeFlag,
		},
	}

	targetFlag = &cli.StringFlag{
		Name:     "target",
		Usage:    fmt.Sprintf("Prediction target [%s]", strings.Join(engine.Targets(), ", ")),
		Required: true,
	}

	describeCmd = &cli.Command{
		Name:      "describe",
		Aliases:   []string{"d"},
		Usage:     "Show the model card for one prediction target",
		UsageText: `bioctl describe --target health_index`,
		Action:    cmdDescribe,
		Flags: []cli.Flag{
			targetFlag,
		},
	}
)

// resolveRecord builds the input record from --input JSON or a stored
// sample id.
func resolveRecord(c *cli.Context) (engine.Record, error) {
	if input := c.String(inputFlag.Name); input != "" {
		var rec engine.Record
		if err := json.Unmarshal([]byte(input), &rec); err != nil {
			return nil, fmt.Errorf("parsing --input: %w", err)
		}
		return rec, nil
	}

	if c.IsSet(sampleIDFlag.Name) {
		cfg := getConfig(c)
		s, err := data.GetSample(cfg.DB, c.Int64(sampleIDFlag.Name))
		if err != nil {
			return nil, err
		}
		return engine.Record(s.Features), nil
	}

	return nil, errors.New("either --input or --id is required")
}

func cmdValidate(c *cli.Context) error {
	cfg := getConfig(c)

	rec, err := resolveRecord(c)
	if err != nil {
		return err
	}

	v, err := cfg.Engine.Validate(rec)
	if err != nil {
		return err
	}
	return encode(v)
}

func cmdAnalyze(c *cli.Context) error {
	cfg := getConfig(c)

	if c.Bool(allSamplesFlag.Name) {
		count, err := data.CountSamples(cfg.DB)
		if err != nil {
			return err
		}
		samples, err := data.ListSamples(cfg.DB, count)
		if err != nil {
			return err
		}

		records := make([]engine.Record, len(samples))
		for i, s := range samples {
			records[i] = engine.Record(s.Features)
		}

		results, err := cfg.Engine.AnalyzeBatch(c.Context, records)
		if err != nil {
			return err
		}
		return encode(results)
	}

	rec, err := resolveRecord(c)
	if err != nil {
		return err
	}

	a, err := cfg.Engine.Analyze(rec)
	if err != nil {
		return err
	}
	return encode(a)
}

func cmdSimulate(c *cli.Context) error {
	cfg := getConfig(c)

	rec, err := resolveRecord(c)
	if err != nil {
		return err
	}

	s, err := cfg.Engine.Simulate(rec, c.String(varyFeatureFlag.Name), c.Int(stepsFlag.Name), c.Float64(rangeFlag.Name))
	if err != nil {
		return err
	}
	return encode(s)
}

func cmdDescribe(c *cli.Context) error {
	cfg := getConfig(c)

	d, err := cfg.Engine.Describe(c.String(targetFlag.Name))
	if err != nil {
		return err
	}
	return encode(d)
}
