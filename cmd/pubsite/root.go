package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eringen/pubsite"
	"github.com/eringen/pubsite/tags"
	"github.com/eringen/pubsite/views"
)

// version is set at build time via ldflags.
var version = "dev"

type options struct {
	metadata string
	envFile  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "pubsite",
		Short:        "A blog site engine built with Go, Echo, and templ",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.metadata, "metadata", "site.yaml", "site metadata file (title, description, author)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "environment file loaded before reading configuration")

	root.AddCommand(
		newServeCmd(opts),
		newFeedCmd(opts),
		newCrawlCmd(opts),
		newTagsCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the pubsite version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "pubsite %s\n", version)
			},
		},
	)
	return root
}

// openApp loads configuration and opens the store without serving HTTP.
func openApp(opts *options) (*pubsite.App, error) {
	cfg, err := pubsite.LoadConfig(opts.metadata)
	if err != nil {
		return nil, err
	}
	app := pubsite.New(cfg, views.Default())
	if err := app.Open(); err != nil {
		return nil, err
	}
	return app, nil
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pubsite.LoadConfig(opts.metadata)
			if err != nil {
				return err
			}
			app := pubsite.New(cfg, views.Default())
			defer app.Close()
			log.Printf("pubsite %s listening on %s", version, cfg.Addr)
			return app.Start()
		},
	}
}

func newFeedCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Render the RSS feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			rss, err := app.Feed.Render(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), rss)
				return err
			}
			return os.WriteFile(out, []byte(rss), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the feed to a file instead of stdout")
	return cmd
}

func newCrawlCmd(opts *options) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "List every page path under a root",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			paths, err := app.Site.Crawl(cmd.Context(), root)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "/", "only list paths under this root")
	return cmd
}

func newTagsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print the tag index",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return printTags(cmd.Context(), cmd, app)
		},
	}
}

func printTags(ctx context.Context, cmd *cobra.Command, app *pubsite.App) error {
	routes, err := app.Tags.Routes(ctx, app.Config.BlogRoot)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tag", "Posts", "Path"})
	for _, e := range tags.Index(routes, app.Config.TagsRoot) {
		t.AppendRow(table.Row{e.Name, e.Count, e.Href})
	}
	t.Render()
	return nil
}
