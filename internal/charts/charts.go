// Package charts renders reconstruction coverage as interactive HTML.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "Replay coverage",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#3BA272", "#EE6666", "#5470C6", "#FAC858", "#73C0DE", "#FC8452", "#9A60B4"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// CoveragePoints turns runs into one point per replay: the percentage of
// its commands the driver consumed. Runs are plotted oldest first.
func CoveragePoints(runs []*storage.Run) []DataPoint {
	sorted := slices.Clone(runs)
	slices.SortStableFunc(sorted, func(a, b *storage.Run) int {
		return a.StartedAt.Compare(b.StartedAt)
	})

	points := make([]DataPoint, len(sorted))
	for i, run := range sorted {
		points[i] = DataPoint{Label: run.Replay, Value: float64(int(run.Coverage()*1000)) / 10}
	}
	return points
}

// ErrorKindPoints turns run stats into one point per stopping reason.
// Completed runs count as "completed".
func ErrorKindPoints(stats *storage.RunStats) []DataPoint {
	if stats == nil {
		return nil
	}
	var points []DataPoint
	if stats.Completed > 0 {
		points = append(points, DataPoint{Label: "completed", Value: float64(stats.Completed)})
	}
	kinds := make([]string, 0, len(stats.ByErrorKind))
	for kind := range stats.ByErrorKind {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		points = append(points, DataPoint{Label: kind, Value: float64(stats.ByErrorKind[kind])})
	}
	return points
}

func globalOpts(config ChartConfig, title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors(config.Colors)),
	}
}

// CoverageBar builds a bar chart of per-replay command coverage.
func CoverageBar(points []DataPoint, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(config, config.Title, config.Subtitle)...)
	bar.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: "% commands", Max: 100}))

	xLabels := make([]string, len(points))
	yData := make([]opts.BarData, len(points))
	for i, point := range points {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Coverage", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)
	return bar
}

// OutcomePie builds a pie chart of why runs stopped.
func OutcomePie(points []DataPoint, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(config, "Run outcomes", "")...)

	data := make([]opts.PieData, len(points))
	for i, point := range points {
		data[i] = opts.PieData{Name: point.Label, Value: point.Value}
	}
	pie.AddSeries("Outcome", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)
	return pie
}

// RenderCoverage writes a page holding the coverage bar chart and the
// outcome pie.
func RenderCoverage(w io.Writer, runs []*storage.Run, stats *storage.RunStats, config ChartConfig) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to chart")
	}
	page := components.NewPage()
	page.PageTitle = config.Title
	page.AddCharts(
		CoverageBar(CoveragePoints(runs), config),
		OutcomePie(ErrorKindPoints(stats), config),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteCoverage renders the coverage page to outputPath.
func WriteCoverage(outputPath string, runs []*storage.Run, stats *storage.RunStats, config ChartConfig) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderCoverage(f, runs, stats, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
