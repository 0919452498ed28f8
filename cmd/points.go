package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/irinazakhvatkina/RepuntoApp/pkg/detail"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/filter"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/models"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ANSI color codes, cleared when stdout is not a terminal
var (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorDim   = "\033[2m"
	colorBold  = "\033[1m"
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		colorReset = ""
		colorGreen = ""
		colorCyan = ""
		colorDim = ""
		colorBold = ""
	}
}

var (
	pointsMaterials []string
	pointsJSON      bool
	pointsDetail    bool
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "List recycling points",
	Long: `Prints the catalog's recycling points, optionally filtered by material.

Example:
  repunto points --material plastic,metal`,
	RunE: runPoints,
}

func init() {
	pointsCmd.Flags().StringSliceVarP(&pointsMaterials, "material", "m", nil,
		"Materials to show (plastic, metal, paper, glass, batteries, electronics)")
	pointsCmd.Flags().BoolVar(&pointsJSON, "json", false, "Output results as JSON")
	pointsCmd.Flags().BoolVarP(&pointsDetail, "detail", "d", false, "Show address, type and description")
}

func runPoints(cmd *cobra.Command, args []string) error {
	sel, err := filter.ParseSelection(pointsMaterials)
	if err != nil {
		return err
	}

	c, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	points := filter.Apply(c.Points, sel)

	if pointsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(points)
	}
	printPoints(cmd.OutOrStdout(), points, sel)
	return nil
}

func printPoints(w io.Writer, points []*models.RecyclingPoint, sel filter.Selection) {
	fmt.Fprintf(w, "%s%d points%s %s(filter: %s)%s\n", colorBold, len(points), colorReset, colorDim, sel, colorReset)
	for i, p := range points {
		fmt.Fprintf(w, "%d. %s%s%s [%s%s%s] (%.6f, %.6f)\n",
			i+1, colorBold, p.Title, colorReset,
			colorGreen, p.Material.Label(), colorReset,
			p.Location.Lat, p.Location.Lon)
		if pointsDetail {
			for _, line := range detail.InfoLines(p) {
				fmt.Fprintf(w, "   %s%s%s\n", colorCyan, line, colorReset)
			}
		}
	}
}
