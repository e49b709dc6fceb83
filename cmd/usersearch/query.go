package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/usersearch"
	"github.com/hupe1980/usersearch/highlight"
	"github.com/hupe1980/usersearch/model"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		limit  int
		fields []string
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search the configured user directory",
		Long: `Load the configured user directory, build a fuzzy index and print the
ranked matches as "score  @username  Display Name". Matched characters are
highlighted; --plain marks them with brackets instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			cfg := a.cfg
			if cmd.Flags().Changed("limit") {
				cfg.Search.Limit = limit
			}
			if cmd.Flags().Changed("fields") {
				cfg.Search.Fields = fields
			}

			src, closeSrc, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeSrc() }()

			users, err := src.Load(ctx)
			if err != nil {
				return err
			}

			opts := []usersearch.Option{
				usersearch.WithLogger(a.logger),
				usersearch.WithFieldWeight(cfg.Search.FieldWeight),
				usersearch.WithExactMatchBonus(cfg.Search.ExactMatchBonus),
				usersearch.WithLimit(cfg.Search.Limit),
			}
			if cfg.Search.MinScore != nil {
				opts = append(opts, usersearch.WithMinScore(*cfg.Search.MinScore))
			}

			ix, err := usersearch.Build(users, cfg.Search.Fields, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range ix.Search(strings.Join(args, " ")) {
				u := m.Record
				fmt.Fprintf(out, "%4d  @%s  %s\n",
					m.Score,
					render(u.Username, m.Ranges, plain, model.FieldUsername),
					render(u.DisplayName, m.Ranges, plain, model.FieldDisplayName, model.FieldName),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results (0 = unlimited)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to search in priority order (default from config)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Mark matches with [brackets] instead of terminal styles")

	return cmd
}

// render highlights the ranges of value recorded under any of fields.
func render(value string, ranges []model.Range, plain bool, fields ...string) string {
	var own []model.Range
	for _, f := range fields {
		own = append(own, highlight.ForField(ranges, f)...)
	}
	if plain {
		return highlight.Mark(value, own, "[", "]")
	}
	return highlight.Style(value, own, highlight.DefaultStyle)
}
