package cli

import (
	"fmt"
	"strings"

	"pet-clinic-registry/internal/adapters/storage/file"
	"pet-clinic-registry/internal/config"
	"pet-clinic-registry/internal/domain/animals"

	"github.com/spf13/cobra"
)

func newListCommand(flags *rootFlags, streams Streams) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "Print the animals stored in a JSON or XML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *flags, streams)
			if err != nil {
				return err
			}
			store, err := file.NewStoreForPath(args[0])
			if err != nil {
				return err
			}

			svc := a.newService()
			snap, err := svc.Load(cmd.Context(), store)
			if err != nil {
				return err
			}

			items := svc.List()
			if strings.TrimSpace(owner) != "" {
				items = svc.FindByOwner(owner)
			}
			printAnimals(streams, items)
			if !snap.Metadata.SavedAt.IsZero() {
				fmt.Fprintf(streams.Out, "(saved at %s, %d animals)\n",
					snap.Metadata.SavedAt.Format("2006-01-02 15:04:05"), snap.Metadata.TotalAnimals)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "only animals of this owner (case-insensitive)")
	return cmd
}

func newConvertCommand(flags *rootFlags, streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Load a snapshot from SRC and save it to DST; formats come from the extensions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *flags, streams)
			if err != nil {
				return err
			}
			src, err := file.NewStoreForPath(args[0])
			if err != nil {
				return err
			}
			dst, err := file.NewStoreForPath(args[1])
			if err != nil {
				return err
			}

			svc := a.newService()
			if _, err := svc.Load(cmd.Context(), src); err != nil {
				return err
			}
			snap, err := svc.Save(cmd.Context(), dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "Converted %d animals: %s -> %s\n", snap.Metadata.TotalAnimals, args[0], args[1])
			return nil
		},
	}
}

func newDBCommand(flags *rootFlags, streams Streams) *cobra.Command {
	db := &cobra.Command{
		Use:   "db",
		Short: "Move snapshots between files and the database (needs store=postgres or sqlite)",
	}

	transfer := func(use, short string, toDB bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " FILE",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, *flags, streams)
				if err != nil {
					return err
				}
				if !a.cfg.IsDatabase() {
					return fmt.Errorf("db %s: store must be %q or %q", use, config.StorePostgres, config.StoreSQLite)
				}
				fileStore, err := file.NewStoreForPath(args[0])
				if err != nil {
					return err
				}
				dbStore, conn, err := a.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer conn.Close()

				var from, to animals.SnapshotStore = fileStore, dbStore
				if !toDB {
					from, to = dbStore, fileStore
				}

				svc := a.newService()
				if _, err := svc.Load(cmd.Context(), from); err != nil {
					return err
				}
				snap, err := svc.Save(cmd.Context(), to)
				if err != nil {
					return err
				}
				fmt.Fprintf(streams.Out, "Transferred %d animals\n", snap.Metadata.TotalAnimals)
				return nil
			},
		}
	}

	db.AddCommand(
		transfer("push", "Load FILE and store it in the database", true),
		transfer("pull", "Read the database snapshot and write it to FILE", false),
	)
	return db
}

func newConfigCommand(streams Streams) *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cfg.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default configuration as YAML (default petclinic.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "petclinic.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "Wrote %s\n", path)
			return nil
		},
	})
	return cfg
}

func newVersionCommand(streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(streams.Out, "petclinic %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
		},
	}
}

func printAnimals(streams Streams, items []animals.Animal) {
	if len(items) == 0 {
		fmt.Fprintln(streams.Out, "No animals.")
		return
	}
	for _, a := range items {
		fmt.Fprintf(streams.Out, "[%s] %s\n", animals.KindOf(a), animals.Describe(a))
	}
}
