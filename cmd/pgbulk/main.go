package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/johndauphine/pgbulk/internal/config"
	"github.com/johndauphine/pgbulk/internal/logging"
	"github.com/johndauphine/pgbulk/internal/manager"
	"github.com/johndauphine/pgbulk/internal/reader"
	"github.com/johndauphine/pgbulk/internal/record"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pgbulk",
		Usage:   "Load tabular files into PostgreSQL and run ad-hoc SQL",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file (default: environment variables)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to .env file to load before reading the environment",
			},
			&cli.BoolFlag{
				Name:  "prompt-password",
				Usage: "Prompt for the database password instead of reading DB_PASSWORD",
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Value: "info",
				Usage: "Log verbosity level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log format: text or json",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.ParseLevel(c.String("verbosity"))
			if err != nil {
				return err
			}
			logging.SetLevel(level)

			if c.String("log-format") == "json" {
				logging.SetFormat("json")
			}

			// Logs share stdout with query output, so keep them apart.
			logging.SetOutput(os.Stderr)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "Load a CSV/JSON/Excel file into a table",
				ArgsUsage: "<file>",
				Action:    runLoad,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "table",
						Aliases:  []string{"t"},
						Usage:    "Target table name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "Excel sheet name or index (default: first sheet)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Rows per insert chunk (default: MAX_BATCH_SIZE)",
					},
					&cli.BoolFlag{
						Name:  "create",
						Usage: "Create the target table (TEXT columns) from the source's columns first",
					},
				},
			},
			{
				Name:      "exec",
				Usage:     "Execute the statements of a SQL file, printing the last SELECT",
				ArgsUsage: "<file.sql>",
				Action:    runExec,
			},
			{
				Name:      "query",
				Usage:     "Run a SQL query and print the result",
				ArgsUsage: "<sql>",
				Action:    runQuery,
			},
			{
				Name:      "columns",
				Usage:     "Print a table's column descriptors",
				ArgsUsage: "<table>",
				Action:    runColumns,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	if c.Bool("prompt-password") {
		fmt.Fprintf(os.Stderr, "Password for %s@%s:%d/%s: ", cfg.User, cfg.Host, cfg.Port, cfg.Database)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		cfg.Password = string(pw)
	}

	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runLoad(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("load expects exactly one file argument")
	}
	path := c.Args().First()
	table := c.String("table")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		batchSize = cfg.MaxBatchSize
	}

	rows, err := readSourceRows(path, c.String("sheet"))
	if err != nil {
		return err
	}

	cols, err := record.ValidateBatch(rows)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	runID := uuid.NewString()
	logging.Info("load %s: %d rows from %s into %s (batch size %d)", runID, len(rows), path, table, batchSize)

	ctx, cancel := signalContext()
	defer cancel()

	return manager.Session(ctx, cfg, func(m *manager.Manager) error {
		if c.Bool("create") {
			defs := make([]manager.ColumnDef, len(cols))
			for i, col := range cols {
				defs[i] = manager.ColumnDef{Name: col, Type: "TEXT"}
			}
			if err := m.CreateTable(ctx, table, defs, ""); err != nil {
				return err
			}
		}

		bar := progressbar.Default(int64(len(rows)), "loading")
		total := 0
		for _, chunk := range record.Chunk(rows, batchSize) {
			n, err := m.InsertBatch(ctx, table, chunk, batchSize)
			total += n
			if err != nil {
				return fmt.Errorf("load %s aborted after %d rows: %w", runID, total, err)
			}
			_ = bar.Add(n)
		}
		_ = bar.Finish()

		logging.Info("load %s: inserted %d rows into %s", runID, total, table)
		return nil
	})
}

// readSourceRows reads a row source, honoring the sheet selector for
// workbooks.
func readSourceRows(path, sheet string) ([]record.Row, error) {
	r, err := reader.ForFile(path)
	if err != nil {
		return nil, err
	}

	if excel, ok := r.(*reader.Excel); ok && sheet != "" {
		selected := *excel
		if _, err := fmt.Sscanf(sheet, "%d", &selected.SheetIndex); err != nil {
			selected.Sheet = sheet
		}
		return selected.ReadRows(path)
	}

	rr, ok := r.(reader.RowReader)
	if !ok {
		return nil, fmt.Errorf("format of %s cannot produce rows for loading", path)
	}
	return rr.ReadRows(path)
}

func runExec(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exec expects exactly one SQL file argument")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return manager.Session(ctx, cfg, func(m *manager.Manager) error {
		result, err := m.RunSQLFile(ctx, path)
		if err != nil {
			return err
		}
		if result.Len() > 0 {
			printTable(result)
		}
		return nil
	})
}

func runQuery(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("query expects exactly one SQL argument")
	}
	stmt := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return manager.Session(ctx, cfg, func(m *manager.Manager) error {
		result, err := m.QueryTable(ctx, stmt)
		if err != nil {
			return err
		}
		printTable(result)
		fmt.Printf("(%d rows)\n", result.Len())
		return nil
	})
}

func runColumns(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("columns expects exactly one table argument")
	}
	table := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return manager.Session(ctx, cfg, func(m *manager.Manager) error {
		cols, err := m.TableColumns(ctx, table)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tNULLABLE")
		for _, col := range cols {
			fmt.Fprintf(w, "%s\t%s\t%v\n", col.Name, col.DataType, col.Nullable)
		}
		return w.Flush()
	})
}

func printTable(t *record.Table) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}
