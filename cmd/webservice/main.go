package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/gridtools/griddata/internal/pkg/matpower"
	"github.com/gridtools/griddata/internal/pkg/system"
	"github.com/gridtools/griddata/internal/pkg/tabledata"
	"github.com/gridtools/griddata/internal/pkg/webservice"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	app := &cli.App{
		Name:  "webservice",
		Usage: "serve a parsed grid system over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "case", Usage: "matpower case file"},
			&cli.StringFlag{Name: "tables", Usage: "table-data directory"},
			&cli.Float64Flag{Name: "base-power", Value: 100, Usage: "system base power in MVA for table data"},
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
		},
		Action: func(c *cli.Context) error {
			sys, err := loadSystem(c, logger)
			if err != nil {
				return err
			}
			router := webservice.NewRouter(sys, logger)
			addr := c.String("addr")
			logger.Info().Str("addr", addr).Msg("starting server")
			return http.ListenAndServe(addr, router)
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("webservice failed")
	}
}

func loadSystem(c *cli.Context, logger zerolog.Logger) (*system.System, error) {
	switch {
	case c.IsSet("case"):
		return matpower.LoadSystem(c.String("case"), logger)
	case c.IsSet("tables"):
		return tabledata.LoadSystem(c.String("tables"), c.Float64("base-power"), logger)
	}
	return nil, errors.New("one of --case or --tables is required")
}
