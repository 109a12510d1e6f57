package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/wardrobe"
)

type outfitsOptions struct {
	occasion   string
	jsonOutput bool
}

func newOutfitsCmd(flags *rootFlags) *cobra.Command {
	opts := &outfitsOptions{}

	cmd := &cobra.Command{
		Use:     "outfits",
		Aliases: []string{"generate"},
		Short:   "Generate outfit suggestions from your wardrobe",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runOutfits(ctx, cmd, app, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.occasion, "occasion", "o", "", "Occasion to dress for, e.g. \"Eid brunch\"")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runOutfits(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *outfitsOptions) error {
	gallery, err := loadGallery(ctx, app, "generate outfits")
	if err != nil {
		return err
	}

	outfits, err := gallery.Recommend(ctx, opts.occasion)
	if err != nil {
		if errors.Is(err, wardrobe.ErrNoSession) {
			return newCommandError("generate outfits", "resolving the signed-in user", err, "Run 'libaas login' to sign in.")
		}
		return newCommandError("generate outfits", "asking LibaasAI for suggestions", err, backendSuggestion(err))
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(outfits)
	}

	out := cmd.OutOrStdout()
	if len(outfits) == 0 {
		_, _ = fmt.Fprintln(out, "No outfits suggested. Upload more items and try again.")
		return nil
	}
	renderOutfits(out, outfits, domain.IndexByID(gallery.Snapshot().Items))
	return nil
}

func renderOutfits(w io.Writer, outfits []domain.OutfitRecommendation, byID map[string]domain.WardrobeItem) {
	for i, rec := range outfits {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		name := valueOrFallback(rec.Name, fmt.Sprintf("Look %d", i+1))
		if rec.Occasion != "" {
			_, _ = fmt.Fprintf(w, "%d. %s (%s)\n", i+1, name, rec.Occasion)
		} else {
			_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, name)
		}
		if rec.Description != "" {
			_, _ = fmt.Fprintf(w, "   %s\n", rec.Description)
		}
		for _, item := range rec.Garments(byID) {
			_, _ = fmt.Fprintf(w, "   • %s  [%s]\n", valueOrFallback(item.Name, "(unnamed)"), valueOrFallback(item.Category, domain.Uncategorized))
		}
	}
}
