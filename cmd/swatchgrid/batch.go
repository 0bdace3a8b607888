package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/setanarut/swatchgrid/utils"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var batchCmd = &cobra.Command{
	Use:   "batch [image...]",
	Short: "Extract palettes from many images into a CSV of hex codes",
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringP("list", "l", "", "File with one image path per line")
	batchCmd.Flags().StringP("output", "o", "results.csv", "Destination CSV")
	batchCmd.Flags().String("swatch-dir", "", "Also write one swatch PNG per image into this directory")
	batchCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Number of images processed at once")
	addPipelineFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

type batchResult struct {
	path string
	hex  []string
	err  error
}

func readList(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p := strings.TrimSpace(scanner.Text())
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		paths = append(paths, p)
	}
	return paths, scanner.Err()
}

// processAll runs one independent pipeline per path on a fixed pool of
// workers. Results keep the order of paths.
func processAll(paths []string, cfg config, workers int, swatchDir string) []batchResult {
	results := make([]batchResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for range max(1, workers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processOne(paths[i], i, cfg, swatchDir)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func processOne(path string, idx int, cfg config, swatchDir string) batchResult {
	data, err := utils.ReadImage(path)
	if err != nil {
		return batchResult{path: path, err: err}
	}
	res, err := extract(data, cfg)
	if err != nil {
		return batchResult{path: path, err: err}
	}
	if swatchDir != "" {
		name := filepath.Join(swatchDir, fmt.Sprintf("swatch_%04d.png", idx))
		if err := utils.SaveImage(res.Data, name); err != nil {
			return batchResult{path: path, err: err}
		}
	}
	slog.Debug("summarized", "path", path, "colors", len(res.Palette))
	return batchResult{path: path, hex: res.Palette.Hex()}
}

func writeResults(w io.Writer, results []batchResult) (failed int, err error) {
	cw := csv.NewWriter(w)
	for _, r := range results {
		if r.err != nil {
			failed++
			slog.Error("job failed", "path", r.path, "err", r.err)
			continue
		}
		if err := cw.Write(append([]string{r.path}, r.hex...)); err != nil {
			return failed, err
		}
	}
	cw.Flush()
	return failed, cw.Error()
}

func runBatch(cmd *cobra.Command, args []string) error {
	listPath, _ := cmd.Flags().GetString("list")
	outputPath, _ := cmd.Flags().GetString("output")
	swatchDir, _ := cmd.Flags().GetString("swatch-dir")
	workers, _ := cmd.Flags().GetInt("workers")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// Fail fast on bad parameters before starting any worker.
	if _, err := cfg.options(); err != nil {
		return err
	}
	if _, err := cfg.order(); err != nil {
		return err
	}

	paths := args
	if listPath != "" {
		f, err := os.Open(listPath)
		if err != nil {
			return fmt.Errorf("opening list: %w", err)
		}
		defer f.Close()
		listed, err := readList(f)
		if err != nil {
			return fmt.Errorf("reading list: %w", err)
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images given, pass paths or --list")
	}
	if swatchDir != "" {
		if err := os.MkdirAll(swatchDir, 0755); err != nil {
			return fmt.Errorf("creating swatch dir: %w", err)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	slog.Info("batch started", "images", len(paths), "workers", workers)
	results := processAll(paths, cfg, workers, swatchDir)
	failed, err := writeResults(out, results)
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	slog.Info("batch complete", "ok", len(paths)-failed, "failed", failed, "output", outputPath)
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(paths))
	}
	return nil
}
