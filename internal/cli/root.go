// Package cli arma los comandos de petclinic sobre cobra.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"pet-clinic-registry/internal/adapters/storage/memory"
	"pet-clinic-registry/internal/adapters/storage/postgres"
	"pet-clinic-registry/internal/adapters/storage/sqlite"
	"pet-clinic-registry/internal/adapters/storage/sqlstore"
	"pet-clinic-registry/internal/config"
	"pet-clinic-registry/internal/domain/animals"
	"pet-clinic-registry/internal/platform/logger"
	"pet-clinic-registry/internal/shell"

	"github.com/spf13/cobra"
)

// Build info, inyectada con -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type rootFlags struct {
	cfgFile   string
	logLevel  string
	logFormat string
	store     string
	noSeed    bool
}

// app es lo que comparten los subcomandos una vez leída la configuración.
type app struct {
	cfg     config.Config
	log     logger.Logger
	streams Streams
}

func NewRootCommand(streams Streams) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "petclinic",
		Short:         "Pet clinic animal registry",
		Long:          `Keeps a registry of dogs, cats and birds and saves it as JSON, XML or to Postgres.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags, streams)
			if err != nil {
				return err
			}
			return a.runShell(cmd.Context(), !flags.noSeed)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.cfgFile, "config", "c", "", "config file (yaml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error|off")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text|json")
	pf.StringVar(&flags.store, "store", "", "snapshot backend: file|memory|postgres|sqlite")
	root.Flags().BoolVar(&flags.noSeed, "no-seed", false, "start the shell with an empty registry")

	root.AddCommand(
		newListCommand(&flags, streams),
		newConvertCommand(&flags, streams),
		newDBCommand(&flags, streams),
		newConfigCommand(streams),
		newVersionCommand(streams),
	)
	return root
}

// Execute corre la CLI con los streams del proceso.
func Execute() error {
	root := NewRootCommand(Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newApp(cmd *cobra.Command, flags rootFlags, streams Streams) (*app, error) {
	cfg, err := config.Load(flags.cfgFile)
	if err != nil {
		return nil, err
	}

	// los flags explícitos ganan sobre archivo y entorno
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = flags.store
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "petclinic",
		Output: streams.ErrOut,
	})

	return &app{cfg: cfg, log: log, streams: streams}, nil
}

func (a *app) newService() *animals.Service {
	return animals.NewService(animals.NewRegistry(), a.log)
}

// openDB abre la base del backend configurado (postgres o sqlite); el llamador cierra la conexión.
func (a *app) openDB(ctx context.Context) (*sqlstore.SnapshotStore, *sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch a.cfg.Store {
	case config.StorePostgres:
		db, err = postgres.Open(a.cfg.Database.DSN)
	case config.StoreSQLite:
		db, err = sqlite.Open(a.cfg.Database.Path)
	default:
		return nil, nil, fmt.Errorf("store %q is not a database", a.cfg.Store)
	}
	if err != nil {
		return nil, nil, &animals.FileOperationError{Op: "connect", Path: a.cfg.Store, Err: err}
	}
	a.log.Debug("database opened", map[string]any{"store": a.cfg.Store})

	store := sqlstore.NewSnapshotStore(db, a.cfg.Store)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

func (a *app) runShell(ctx context.Context, seed bool) error {
	svc := a.newService()
	if seed {
		if err := shell.Seed(svc); err != nil {
			a.log.Warn("seed failed", map[string]any{"err": err.Error()})
		}
	}

	opts := shell.Options{
		DefaultJSON: a.cfg.Data.JSONFile,
		DefaultXML:  a.cfg.Data.XMLFile,
	}

	switch a.cfg.Store {
	case config.StoreMemory:
		opts.DB = memory.NewSnapshotStore()
	case config.StorePostgres, config.StoreSQLite:
		store, db, err := a.openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = store
	}

	return shell.New(a.streams.In, a.streams.Out, svc, opts).Run(ctx)
}
