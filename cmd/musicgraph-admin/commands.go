package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/musicgraph/musicgraph-server/internal/config"
	domainerrors "github.com/musicgraph/musicgraph-server/internal/errors"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/graph"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/search"
	"github.com/musicgraph/musicgraph-server/internal/service"
	"github.com/musicgraph/musicgraph-server/internal/store/sqlite"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	metadataPath string
	databasePath string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "musicgraph-admin",
		Short:         "Administer a MusicGraph database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.metadataPath, "metadata-path", "", "Base path for metadata storage (default: METADATA_PATH or ~/MusicGraph/metadata)")
	root.PersistentFlags().StringVar(&g.databasePath, "db", "", "Path to the SQLite database (default: {metadata}/musicgraph.db)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log store activity to stderr")

	root.AddCommand(
		newSetAdminCmd(g, "grant", "Give a user admin privileges", true),
		newSetAdminCmd(g, "revoke", "Remove a user's admin privileges", false),
		newCreateUserCmd(g),
		newSeedCmd(g),
		newMigrateParentsCmd(g),
		newConnectionsCmd(g),
		newReindexCmd(g),
	)
	return root
}

// loadConfig resolves paths the same way the server does.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	var args []string
	if g.metadataPath != "" {
		args = append(args, "--metadata-path", g.metadataPath)
	}
	if g.databasePath != "" {
		args = append(args, "--database-path", g.databasePath)
	}
	return config.Load(args)
}

func (g *globalFlags) openStore() (*sqlite.Store, *config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.Discard()
	if g.verbose {
		log = logger.New(logger.Config{Writer: os.Stderr, Format: logger.FormatText, Level: logger.ParseLevel("debug")}).Logger
	}

	st, err := sqlite.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	return st, cfg, nil
}

// printError writes every message a domain error carries.
func printError(w io.Writer, err error) error {
	msgs := domainerrors.Messages(err)
	if len(msgs) > 1 {
		for _, m := range msgs {
			fmt.Fprintln(w, "  -", m)
		}
	}
	return err
}

func newSetAdminCmd(g *globalFlags, use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := g.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			user, changed, err := service.NewAdminService(st, nil).SetAdmin(cmd.Context(), args[0], isAdmin)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintf(out, "%s already has is_admin=%t\n", user.Username, user.IsAdmin)
				return nil
			}
			fmt.Fprintf(out, "%s is_admin=%t\n", user.Username, user.IsAdmin)
			return nil
		},
	}
}

func newCreateUserCmd(g *globalFlags) *cobra.Command {
	var req service.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := g.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			user, err := service.NewAdminService(st, nil).RegisterUser(cmd.Context(), req)
			if err != nil {
				return printError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s) is_admin=%t\n", user.Username, user.ID, user.IsAdmin)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().BoolVar(&req.IsAdmin, "admin", false, "Grant admin privileges")
	return cmd
}

func newSeedCmd(g *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a genre taxonomy, skipping entries that already exist",
		Long: "Loads the built-in taxonomy, or the YAML file given with --file.\n" +
			"Every entry is validated like an API write and the whole file is\n" +
			"applied in one transaction.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tax := genre.DefaultTaxonomy
			if file != "" {
				var err error
				if tax, err = readTaxonomy(file); err != nil {
					return err
				}
			}

			st, _, err := g.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := service.NewSeedService(st, nil, nil).SeedTaxonomy(cmd.Context(), tax)
			if err != nil {
				return printError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Genres: %d created, %d skipped\nBands: %d created, %d skipped\n",
				report.GenresCreated, report.GenresSkipped, report.BandsCreated, report.BandsSkipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML taxonomy file")
	return cmd
}

// readTaxonomy parses a YAML document with top-level genres and bands lists.
func readTaxonomy(path string) (genre.Taxonomy, error) {
	var tax genre.Taxonomy
	data, err := os.ReadFile(path)
	if err != nil {
		return tax, fmt.Errorf("read taxonomy: %w", err)
	}
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return tax, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return tax, nil
}

func newMigrateParentsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-parents",
		Short: "Copy each genre's primary parent into its parent set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := g.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := service.NewSeedService(st, nil, nil).MigrateParents(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d genres with a primary parent\n", report.Scanned)
			fmt.Fprintf(out, "Already present: %d\n", report.AlreadyPresent)
			fmt.Fprintf(out, "Migrated: %d\n", len(report.Migrated))
			for _, id := range report.Migrated {
				fmt.Fprintln(out, "  +", id)
			}
			for _, m := range report.MissingParents {
				fmt.Fprintln(out, "  missing parent:", m)
			}
			if len(report.Unverified) > 0 {
				return fmt.Errorf("verification failed for: %s", strings.Join(report.Unverified, ", "))
			}
			return nil
		},
	}
}

func newConnectionsCmd(g *globalFlags) *cobra.Command {
	var all, asJSON bool

	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Print the derived genre connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := g.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			mode := graph.ModePrimary
			if all {
				mode = graph.ModeAll
			}
			edges, err := service.NewGraphService(st, nil).Connections(cmd.Context(), mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(edges)
			}
			for _, e := range edges {
				fmt.Fprintf(out, "%s -- %s\n", e.A, e.B)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include every parent, not only primary parents")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newReindexCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the database (server must be stopped)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, cfg, err := g.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			index, err := search.NewSearchIndex(search.Options{DataPath: cfg.SearchIndexPath()})
			if err != nil {
				return err
			}
			defer index.Close()

			svc := service.NewSearchService(index, st, nil)
			if err := svc.Reindex(cmd.Context()); err != nil {
				return err
			}
			count, err := svc.DocumentCount()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents\n", count)
			return nil
		},
	}
}
