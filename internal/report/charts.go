package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var gridStyle = chart.Style{
	StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
	StrokeWidth: 1.0,
}

var chartPadding = chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}

func (g *Generator) generateScoreChart(outputDir string, hours int) error {
	series, err := g.db.Series(hours)
	if err != nil {
		return err
	}
	if len(series.ScoreSeries) == 0 {
		return fmt.Errorf("no score data in the last %d hours", hours)
	}

	timestamps := make([]time.Time, len(series.ScoreSeries))
	values := make([]float64, len(series.ScoreSeries))
	for i, p := range series.ScoreSeries {
		timestamps[i] = p.Timestamp
		values[i] = float64(p.Score)
	}

	graph := chart.Chart{
		Title:      "Wi-Fi Health Score",
		TitleStyle: chart.Style{FontSize: 16},
		Background: chart.Style{Padding: chartPadding},
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Score",
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			Range:          &chart.ContinuousRange{Min: 0, Max: 100},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Health score",
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					StrokeWidth: 2,
				},
				XValues: timestamps,
				YValues: values,
			},
		},
	}

	// Moving average smooths out passive-tick jitter
	if len(values) > 10 {
		ts := graph.Series[0].(chart.TimeSeries)
		graph.Series = append(graph.Series, chart.SMASeries{
			Name: "Moving Avg",
			Style: chart.Style{
				StrokeColor:     chart.GetDefaultColor(1),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
			InnerSeries: ts,
			Period:      10,
		})
	}

	return renderPNG(graph, filepath.Join(outputDir, "score.png"))
}

func (g *Generator) generateThroughputChart(outputDir string, hours int) error {
	series, err := g.db.Series(hours)
	if err != nil {
		return err
	}

	var (
		dlTimes, ulTimes []time.Time
		dlVals, ulVals   []float64
	)
	for _, p := range series.PerfSeries {
		if p.DownloadMbps != nil {
			dlTimes = append(dlTimes, p.Timestamp)
			dlVals = append(dlVals, *p.DownloadMbps)
		}
		if p.UploadMbps != nil {
			ulTimes = append(ulTimes, p.Timestamp)
			ulVals = append(ulVals, *p.UploadMbps)
		}
	}
	if len(dlVals) == 0 && len(ulVals) == 0 {
		return fmt.Errorf("no throughput data in the last %d hours", hours)
	}

	var allSeries []chart.Series
	if len(dlVals) > 0 {
		allSeries = append(allSeries, chart.TimeSeries{
			Name:    "Download",
			Style:   chart.Style{StrokeColor: chart.GetDefaultColor(0), StrokeWidth: 2},
			XValues: dlTimes,
			YValues: dlVals,
		})
	}
	if len(ulVals) > 0 {
		allSeries = append(allSeries, chart.TimeSeries{
			Name:    "Upload",
			Style:   chart.Style{StrokeColor: chart.GetDefaultColor(1), StrokeWidth: 2},
			XValues: ulTimes,
			YValues: ulVals,
		})
	}

	graph := chart.Chart{
		Title:      "Throughput",
		TitleStyle: chart.Style{FontSize: 16},
		Background: chart.Style{Padding: chartPadding},
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Mbps",
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			GridMajorStyle: gridStyle,
		},
		Series: allSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return renderPNG(graph, filepath.Join(outputDir, "throughput.png"))
}

func (g *Generator) generateLatencyChart(outputDir string, hours int) error {
	series, err := g.db.Series(hours)
	if err != nil {
		return err
	}

	var (
		timestamps []time.Time
		values     []float64
	)
	for _, p := range series.PerfSeries {
		if p.PingMs != nil {
			timestamps = append(timestamps, p.Timestamp)
			values = append(values, *p.PingMs)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("no latency data in the last %d hours", hours)
	}

	graph := chart.Chart{
		Title:      "Latency",
		TitleStyle: chart.Style{FontSize: 16},
		Background: chart.Style{Padding: chartPadding},
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Ping (ms)",
			Style:          chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 10},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Ping",
				Style:   chart.Style{StrokeColor: chart.GetDefaultColor(2), StrokeWidth: 2},
				XValues: timestamps,
				YValues: values,
			},
		},
	}

	return renderPNG(graph, filepath.Join(outputDir, "latency.png"))
}

func (g *Generator) generateDailyChart(outputDir string) error {
	daily, err := g.db.Daily(30)
	if err != nil {
		return err
	}
	if len(daily) == 0 {
		return fmt.Errorf("no daily data")
	}

	var values []chart.Value
	for _, d := range daily {
		values = append(values, chart.Value{
			Label: d.Day,
			Value: d.AvgScore,
		})
	}

	graph := chart.BarChart{
		Title:      "Average Daily Score (30 days)",
		TitleStyle: chart.Style{FontSize: 16},
		Background: chart.Style{Padding: chartPadding},
		Width:      1200,
		Height:     400,
		Bars:       values,
		BarWidth:   30,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
	}

	return renderPNG(graph, filepath.Join(outputDir, "daily_score.png"))
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(graph renderable, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return graph.Render(chart.PNG, file)
}
