package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/gridtools/griddata/internal/pkg/consistency"
	"github.com/gridtools/griddata/internal/pkg/matpower"
	"github.com/gridtools/griddata/internal/pkg/system"
	"github.com/gridtools/griddata/internal/pkg/tabledata"
	"github.com/gridtools/griddata/internal/pkg/webservice"
)

const (
	exitInconsistent = 1
	exitUsage        = 2
	exitParseError   = 10
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "case", Usage: "matpower case file"},
		&cli.StringFlag{Name: "tables", Usage: "table-data directory"},
		&cli.Float64Flag{Name: "base-power", Value: 100, Usage: "system base power in MVA for table data"},
	}
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	app := &cli.App{
		Name:  "griddata",
		Usage: "parse, inspect and cross-check grid system data",
		Commands: []*cli.Command{
			validateCommand(logger),
			compareCommand(logger),
			showCommand(logger),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("griddata failed")
	}
}

// loadSource parses whichever single source the flags name.
func loadSource(c *cli.Context, logger zerolog.Logger) (*system.System, error) {
	switch {
	case c.IsSet("case") && c.IsSet("tables"):
		return nil, errors.New("--case and --tables are mutually exclusive here; use compare to cross-check")
	case c.IsSet("case"):
		return matpower.LoadSystem(c.String("case"), logger)
	case c.IsSet("tables"):
		return tabledata.LoadSystem(c.String("tables"), c.Float64("base-power"), logger)
	}
	return nil, errors.New("one of --case or --tables is required")
}

func validateCommand(logger zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "parse one source and report what it contains",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			sys, err := loadSource(c, logger)
			if err != nil {
				return cli.Exit(err.Error(), exitParseError)
			}
			for _, category := range system.Categories() {
				comps, _ := sys.ComponentsByCategory(category)
				fmt.Printf("%-14s %d\n", category, len(comps))
			}
			return nil
		},
	}
}

func compareCommand(logger zerolog.Logger) *cli.Command {
	flags := append(sourceFlags(),
		&cli.Float64Flag{
			Name:  "tolerance",
			Value: consistency.DefaultTolerance,
			Usage: "absolute tolerance for numeric comparisons",
		},
		&cli.BoolFlag{
			Name:  "allow-point-count-mismatch",
			Usage: "downgrade cost-curve point-count mismatches to warnings",
		},
	)
	return &cli.Command{
		Name:  "compare",
		Usage: "cross-check a matpower case against a table-data directory",
		Flags: flags,
		Action: func(c *cli.Context) error {
			if !c.IsSet("case") || !c.IsSet("tables") {
				return cli.Exit("compare needs both --case and --tables", exitUsage)
			}
			primary, err := matpower.LoadSystem(c.String("case"), logger)
			if err != nil {
				return cli.Exit(err.Error(), exitParseError)
			}
			basePower := primary.BasePower()
			if c.IsSet("base-power") {
				basePower = c.Float64("base-power")
			}
			comparison, err := tabledata.LoadSystem(c.String("tables"), basePower, logger)
			if err != nil {
				return cli.Exit(err.Error(), exitParseError)
			}

			opts := consistency.Options{Tolerance: c.Float64("tolerance")}
			if c.Bool("allow-point-count-mismatch") {
				opts.PointCount = consistency.PointCountWarn
			}
			result := consistency.Check(primary, comparison, opts, logger)

			switch {
			case result.Fatal != nil:
				return cli.Exit("systems are inconsistent: "+result.Fatal.String(), exitInconsistent)
			case !result.OK():
				return cli.Exit(fmt.Sprintf("systems are inconsistent: %d mismatches", len(result.Failures)), exitInconsistent)
			}
			fmt.Printf("systems agree, %d comparisons skipped\n", len(result.Warnings))
			return nil
		},
	}
}

func showCommand(logger zerolog.Logger) *cli.Command {
	flags := append(sourceFlags(),
		&cli.BoolFlag{Name: "expanded", Usage: "expanded cost-curve rendering"},
	)
	return &cli.Command{
		Name:      "show",
		Usage:     "print one component as JSON",
		ArgsUsage: "CATEGORY NAME",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("show needs CATEGORY and NAME arguments", exitUsage)
			}
			sys, err := loadSource(c, logger)
			if err != nil {
				return cli.Exit(err.Error(), exitParseError)
			}
			category, name := c.Args().Get(0), c.Args().Get(1)
			comp, ok := sys.GetComponent(category, name)
			if !ok {
				return cli.Exit(fmt.Sprintf("no %s named %q", category, name), exitUsage)
			}
			body, err := json.MarshalIndent(webservice.ComponentBody(comp, c.Bool("expanded")), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
}
