package main

import (
	"fmt"
	"os"

	"github.com/setanarut/swatchgrid"
	"github.com/setanarut/swatchgrid/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config mirrors the pipeline parameters. Values from the YAML file are
// overridden by flags set on the command line.
type config struct {
	Colors   int     `yaml:"colors"`
	Rows     int     `yaml:"rows"`
	Cols     int     `yaml:"cols"`
	Contrast float64 `yaml:"contrast"`
	Blur     int     `yaml:"blur"`
	Method   string  `yaml:"method"`
	Target   int     `yaml:"target"`
	Tile     int     `yaml:"tile"`
	MaxSide  int     `yaml:"max_side"`
	Order    string  `yaml:"order"`
}

func defaultConfig() config {
	d := swatchgrid.DefaultOptions()
	return config{
		Colors:   d.PaletteSize,
		Contrast: d.Contrast,
		Blur:     d.BlurRadius,
		Method:   d.Method.String(),
		Target:   d.ReductionTarget,
		Tile:     d.TileSize,
		Order:    utils.OrderFrequency.String(),
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// addPipelineFlags registers the flags shared by extract and batch.
func addPipelineFlags(cmd *cobra.Command) {
	d := defaultConfig()
	cmd.Flags().IntP("colors", "n", d.Colors, "Number of colors to extract")
	cmd.Flags().Int("rows", 0, "Grid rows (0 = single row)")
	cmd.Flags().Int("cols", 0, "Grid columns (0 = single row)")
	cmd.Flags().Float64("contrast", d.Contrast, "Contrast coefficient (1.0 = unchanged)")
	cmd.Flags().Int("blur", d.Blur, "Box blur radius in pixels")
	cmd.Flags().String("method", d.Method, "Color reduction method (bucket, median, mean)")
	cmd.Flags().Int("target", d.Target, "Maximum distinct colors after reduction")
	cmd.Flags().Int("tile", d.Tile, "Swatch cell size in pixels")
	cmd.Flags().Int("max-side", 0, "Downscale images whose longest side exceeds this (0 = off)")
	cmd.Flags().String("order", d.Order, "Swatch order (frequency, brightness)")
}

// resolveConfig loads --config and applies every explicitly set flag on top.
func resolveConfig(cmd *cobra.Command) (config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("colors") {
		cfg.Colors, _ = f.GetInt("colors")
	}
	if f.Changed("rows") {
		cfg.Rows, _ = f.GetInt("rows")
	}
	if f.Changed("cols") {
		cfg.Cols, _ = f.GetInt("cols")
	}
	if f.Changed("contrast") {
		cfg.Contrast, _ = f.GetFloat64("contrast")
	}
	if f.Changed("blur") {
		cfg.Blur, _ = f.GetInt("blur")
	}
	if f.Changed("method") {
		cfg.Method, _ = f.GetString("method")
	}
	if f.Changed("target") {
		cfg.Target, _ = f.GetInt("target")
	}
	if f.Changed("tile") {
		cfg.Tile, _ = f.GetInt("tile")
	}
	if f.Changed("max-side") {
		cfg.MaxSide, _ = f.GetInt("max-side")
	}
	if f.Changed("order") {
		cfg.Order, _ = f.GetString("order")
	}
	return cfg, nil
}

func (c config) options() (swatchgrid.Options, error) {
	method, err := swatchgrid.ParseReductionMethod(c.Method)
	if err != nil {
		return swatchgrid.Options{}, err
	}
	opts := swatchgrid.Options{
		Contrast:        c.Contrast,
		BlurRadius:      c.Blur,
		Method:          method,
		ReductionTarget: c.Target,
		PaletteSize:     c.Colors,
		Shape:           swatchgrid.Shape{Rows: c.Rows, Cols: c.Cols},
		TileSize:        c.Tile,
		MaxSide:         c.MaxSide,
	}
	return opts, opts.Validate()
}

func (c config) order() (utils.PaletteOrder, error) {
	return utils.ParsePaletteOrder(c.Order)
}
