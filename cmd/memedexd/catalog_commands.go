package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"memedex/internal/catalog"
	"memedex/internal/config"
	"memedex/internal/services/embedder"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and search the image catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogSearchCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed images, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list catalog: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.Filename,
						truncate(entry.Caption, 60),
						entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Filename", "Caption", "Added"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by text similarity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				client := embedder.NewClient(embedder.Config{
					BaseURL:        cfg.Embedder.BaseURL,
					Model:          cfg.Embedder.Model,
					TimeoutSeconds: cfg.Embedder.TimeoutSeconds,
				})
				vector, err := client.Embed(cmd.Context(), query)
				if err != nil {
					return fmt.Errorf("embed query: %w", err)
				}

				results, err := store.Search(cmd.Context(), vector, topK)
				if err != nil {
					return fmt.Errorf("search catalog: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No matches")
					return nil
				}

				rows := make([][]string, 0, len(results))
				for _, result := range results {
					rows = append(rows, []string{
						fmt.Sprintf("%.3f", result.Score),
						result.Entry.Filename,
						truncate(result.Entry.Caption, 60),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Score", "Filename", "Caption"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&topK, "top", "k", 10, "Number of results to return")
	return cmd
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a catalog entry by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry ID %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("remove entry: %w", err)
				}
				out := cmd.OutOrStdout()
				if !removed {
					fmt.Fprintf(out, "No entry with ID %d\n", id)
					return nil
				}
				fmt.Fprintf(out, "Removed entry %d\n", id)
				return nil
			})
		},
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
