package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/setanarut/swatchgrid"
	"github.com/setanarut/swatchgrid/utils"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"golang.org/x/term"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a palette from one image and write the swatch PNG",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringP("input", "i", "", "Input image file")
	extractCmd.Flags().StringP("output", "o", "palette.png", "Output swatch PNG")
	extractCmd.Flags().Bool("preview", false, "Draw the swatch in the terminal using sixel")
	addPipelineFlags(extractCmd)
	extractCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(extractCmd)
}

// extract runs the pipeline on data and applies the configured ordering.
func extract(data []byte, cfg config) (*swatchgrid.Result, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	order, err := cfg.order()
	if err != nil {
		return nil, err
	}

	res, err := swatchgrid.Run(data, opts)
	if err != nil {
		return nil, err
	}
	if order != utils.OrderFrequency {
		order.Apply(res.Palette)
		res.Data, err = swatchgrid.Render(res.Palette, res.Shape, opts.TileSize)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}
	return res, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	preview, _ := cmd.Flags().GetBool("preview")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	data, err := utils.ReadImage(inputPath)
	if err != nil {
		return err
	}

	res, err := extract(data, cfg)
	if errors.Is(err, swatchgrid.ErrEmptyPalette) {
		return fmt.Errorf("no colors found in %s", inputPath)
	}
	if err != nil {
		return fmt.Errorf("extracting %s: %w", inputPath, err)
	}
	slog.Debug("palette extracted",
		"input", inputPath,
		"width", res.SrcWidth,
		"height", res.SrcHeight,
		"distinct", res.Distinct,
		"shape", res.Shape.String(),
	)
	if len(res.Palette) < cfg.Colors {
		slog.Warn("fewer distinct colors than requested", "requested", cfg.Colors, "found", len(res.Palette))
	}

	if err := utils.SaveImage(res.Data, outputPath); err != nil {
		return err
	}
	slog.Info("swatch written", "output", outputPath, "bytes", len(res.Data))

	fmt.Println(strings.Join(res.Palette.Hex(), " "))

	if preview {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			slog.Warn("stdout is not a terminal, skipping preview")
			return nil
		}
		return utils.WriteSixel(os.Stdout, res.Data)
	}
	return nil
}
