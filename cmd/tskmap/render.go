package main

import (
	"fmt"
	"os"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/internal/render"
	"github.com/spf13/cobra"
)

var (
	renderOutput  string
	renderArchive bool
	renderName    string
)

var renderCmd = &cobra.Command{
	Use:   "render <file.tsk>",
	Short: "Render a task file to GeoJSON",
	Long: `Render a task into a GeoJSON FeatureCollection: the course line first,
then the observation zone and waypoint marker of every point in flight order.

Examples:
  # Write GeoJSON to stdout
  tskmap render lasham-300.tsk

  # Web Mercator coordinates, indented, into a file
  tskmap render --crs EPSG:3857 --pretty -o lasham.geojson lasham-300.tsk

  # Also keep the render in the configured archive
  tskmap render --archive --name "Day 3" lasham-300.tsk`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "", "write GeoJSON to this file instead of stdout")
	f.String("crs", string(render.WGS84), "output coordinate reference system (EPSG:4326 or EPSG:3857)")
	f.Bool("pretty", false, "indent the GeoJSON output")
	f.Int("workers", 0, "parallel zone synthesis workers (0 runs sequentially)")
	f.BoolVar(&renderArchive, "archive", false, "save the render to the configured archive")
	f.StringVar(&renderName, "name", "", "archive name (default: task file name)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"render.crs":     "crs",
		"render.pretty":  "pretty",
		"render.workers": "workers",
	})
	if err != nil {
		return err
	}

	cfg := config.GetRenderConfig()
	crs, err := render.ParseCRS(cfg.CRS)
	if err != nil {
		return err
	}

	ctx := taskContext(cmd.Context(), args[0])
	t, err := readTask(args[0])
	if err != nil {
		return err
	}
	c, err := assemble(ctx, t, cfg.Workers)
	if err != nil {
		return err
	}

	if renderOutput == "" {
		if err := c.Encode(cmd.OutOrStdout(), crs, cfg.Pretty); err != nil {
			return err
		}
	} else {
		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := c.Encode(f, crs, cfg.Pretty); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		Logger.InfoContext(ctx, "Wrote GeoJSON", "path", renderOutput, "crs", crs, "features", len(c.Features))
	}

	if !renderArchive {
		return nil
	}
	name := renderName
	if name == "" {
		name = taskName(args[0])
	}
	return archiveRender(ctx, name, t, c)
}
