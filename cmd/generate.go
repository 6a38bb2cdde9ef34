package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/config"
	"github.com/aegis-locate/aegis-seed/internal/db"
	"github.com/aegis-locate/aegis-seed/internal/pipeline"
	"github.com/aegis-locate/aegis-seed/internal/store"
)

var genFlags struct {
	seed        uint64
	excavators  int
	employees   int
	tickets     int
	damages     int
	skipDemos   bool
	out         string
	format      string
	sqlite      string
	postgres    string
	schema      string
	upsert      bool
	workbook    string
	territories string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the full correlated dataset",
	Long:  "Runs excavators, employees, tickets (demo scenarios first) and damages in order, writing each collection and a _summary document to every configured sink.",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyGenerateFlags(cmd, cfg)
		if err := cfg.Validate("generate"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sink, err := openSinks(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := sink.Close(); cerr != nil {
				zap.L().Error("generate: close sinks", zap.Error(cerr))
			}
		}()

		res, err := pipeline.Run(ctx, pipelineOptions(cfg, sink))
		if err != nil {
			return err
		}

		s := res.Summary
		fmt.Fprintf(cmd.OutOrStdout(), "seed %d: %d excavators, %d employees, %d tickets, %d damages (%s total cost) in %ss\n",
			res.Seed, s.Counts.Excavators, s.Counts.Employees, s.Counts.Tickets, s.Counts.Damages,
			s.Statistics.Damages.TotalCost, s.GenerationTimeSeconds)
		return nil
	},
}

// applyGenerateFlags lets explicitly set flags override file and env settings.
func applyGenerateFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("seed") {
		c.Generate.Seed = genFlags.seed
	}
	if f.Changed("excavators") {
		c.Generate.Excavators = genFlags.excavators
	}
	if f.Changed("employees") {
		c.Generate.Employees = genFlags.employees
	}
	if f.Changed("tickets") {
		c.Generate.Tickets = genFlags.tickets
	}
	if f.Changed("damages") {
		c.Generate.Damages = genFlags.damages
	}
	if f.Changed("skip-demos") {
		c.Generate.SkipDemos = genFlags.skipDemos
	}
	if f.Changed("out") {
		c.Output.Dir = genFlags.out
	}
	if f.Changed("format") {
		c.Output.Format = genFlags.format
	}
	if f.Changed("workbook") {
		c.Output.Workbook = genFlags.workbook
	}
	if f.Changed("territories") {
		c.Output.Territories = genFlags.territories
	}
	if f.Changed("sqlite") {
		c.Store.SQLitePath = genFlags.sqlite
	}
	if f.Changed("postgres") {
		c.Store.DatabaseURL = genFlags.postgres
	}
	if f.Changed("schema") {
		c.Store.Schema = genFlags.schema
	}
	if f.Changed("upsert") {
		c.Store.Upsert = genFlags.upsert
	}
}

func pipelineOptions(c *config.Config, sink store.Sink) pipeline.Options {
	return pipeline.Options{
		Seed:            c.Generate.Seed,
		Excavators:      c.Generate.Excavators,
		Employees:       c.Generate.Employees,
		Tickets:         c.Generate.Tickets,
		Damages:         c.Generate.Damages,
		SkipDemos:       c.Generate.SkipDemos,
		Hotspots:        c.Generate.Hotspots,
		Sink:            sink,
		TerritoriesPath: c.Output.Territories,
	}
}

// openSinks builds one sink per configured output. An empty output dir disables file
// output.
func openSinks(ctx context.Context, c *config.Config) (store.Multi, error) {
	var sinks store.Multi
	fail := func(err error) (store.Multi, error) {
		_ = sinks.Close()
		return nil, err
	}

	if c.Output.Dir != "" {
		dir, err := store.NewDirSink(c.Output.Dir, store.Format(c.Output.Format))
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, dir)
	}

	if c.Store.SQLitePath != "" {
		s, err := store.NewSQLite(c.Store.SQLitePath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if c.Store.DatabaseURL != "" {
		pool, err := db.Connect(ctx, c.Store.DatabaseURL, db.PoolConfig{MaxConns: c.Store.MaxConns})
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, store.NewPostgres(pool, store.PostgresOptions{
			Schema: c.Store.Schema,
			Upsert: c.Store.Upsert,
		}))
	}

	if c.Output.Workbook != "" {
		sinks = append(sinks, store.NewWorkbook(c.Output.Workbook))
	}

	if len(sinks) == 0 {
		return nil, eris.New("generate: no output configured")
	}
	return sinks, nil
}

func init() {
	f := generateCmd.Flags()
	f.Uint64Var(&genFlags.seed, "seed", 0, "random seed (0 picks one and reports it)")
	f.IntVar(&genFlags.excavators, "excavators", pipeline.DefaultExcavators, "excavator companies to generate")
	f.IntVar(&genFlags.employees, "employees", pipeline.DefaultEmployees, "locators to generate (max 25)")
	f.IntVar(&genFlags.tickets, "tickets", pipeline.DefaultTickets, "total tickets including demo scenarios")
	f.IntVar(&genFlags.damages, "damages", pipeline.DefaultDamages, "historical damages to generate")
	f.BoolVar(&genFlags.skipDemos, "skip-demos", false, "leave out the three demo tickets")
	f.StringVar(&genFlags.out, "out", "data", "output directory for collection files (empty disables)")
	f.StringVar(&genFlags.format, "format", "json", "collection file format: json or yaml")
	f.StringVar(&genFlags.sqlite, "sqlite", "", "also write to this SQLite database")
	f.StringVar(&genFlags.postgres, "postgres", "", "also COPY into this PostgreSQL database URL")
	f.StringVar(&genFlags.schema, "schema", "public", "PostgreSQL schema for seed_* tables")
	f.BoolVar(&genFlags.upsert, "upsert", false, "upsert into PostgreSQL instead of truncate and reload")
	f.StringVar(&genFlags.workbook, "workbook", "", "also write an .xlsx workbook with one sheet per collection")
	f.StringVar(&genFlags.territories, "territories", "", "export employee territories to this shapefile")
	rootCmd.AddCommand(generateCmd)
}
