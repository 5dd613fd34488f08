/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"github.com/wcharczuk/go-chart"
)

// ResponsesChart percentiles chart for png, rps goes to secondary axis
func ResponsesChart(chartTitle string, path string) (*chart.Chart, error) {
	percs, err := parsePercsData(path)
	if err != nil {
		return nil, err
	}
	var (
		series     []chart.Series
		respValues []float64
		rpsValues  []float64
	)
	for colorIndex, key := range []string{"rps", "p50", "p95", "p99"} {
		value := percs[key]
		line := chart.ContinuousSeries{
			Name: key,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(colorIndex).WithAlpha(255),
				DotWidth:    3.0,
				StrokeWidth: 3,
			},
			XValues: value.XValues,
			YValues: value.YValues,
		}
		if key == "rps" {
			line.YAxis = chart.YAxisSecondary
			rpsValues = append(rpsValues, value.YValues...)
		} else {
			respValues = append(respValues, value.YValues...)
		}
		series = append(series, line)
	}

	chartData := &chart.Chart{
		Title: chartTitle,
		Background: chart.Style{
			Padding: chart.Box{
				Top:  20,
				Left: 150,
			},
		},
		XAxis: chart.XAxis{
			Name: "Test time (Seconds)",
		},
		// explicit ranges, flat lines have zero delta otherwise
		YAxis: chart.YAxis{
			Name:  "Response time (Ms)",
			Range: &chart.ContinuousRange{Min: 0, Max: MaxRPS(respValues) + 1},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "RPS",
			Range: &chart.ContinuousRange{Min: 0, Max: MaxRPS(rpsValues) + 1},
		},
		Series: series,
		Width:  800,
		Height: 600,
	}
	chartData.Elements = []chart.Renderable{
		chart.LegendLeft(chartData),
	}
	return chartData, nil
}

func RenderChart(chartData *chart.Chart, fileName string) error {
	file, err := CreateFileOrReplace(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return chartData.Render(chart.PNG, file)
}
