/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/charts"
)

var (
	errMalformedCSV = errors.New("malformed csv")
	errEmptyCSV     = errors.New("empty csv, nothing to plot")
)

// percsColumns percentiles csv columns plotted as lines, column index by series name
var percsColumns = map[string]int{
	"rps": 2,
	"p50": 3,
	"p95": 4,
	"p99": 5,
}

type ChartLine struct {
	XValues []float64
	YValues []float64
}

// parsePercsData reads percentiles csv written by Report, x is test tick (second)
func parsePercsData(path string) (map[string]*ChartLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	percs := make(map[string]*ChartLine, len(percsColumns))
	for name := range percsColumns {
		percs[name] = &ChartLine{}
	}
	// skip csv header
	if _, err := reader.Read(); err != nil && err != io.EOF {
		return nil, err
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(PercsCsvHeader) {
			return nil, errMalformedCSV
		}
		tick, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, err
		}
		for name, col := range percsColumns {
			y, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, err
			}
			percs[name].XValues = append(percs[name].XValues, tick)
			percs[name].YValues = append(percs[name].YValues, y)
		}
	}
	for _, v := range percs {
		if len(v.XValues) == 0 || len(v.YValues) == 0 {
			return nil, errEmptyCSV
		}
	}
	return percs, nil
}

func PercsChart(path string, title string) (*charts.Line, error) {
	d, err := parsePercsData(path)
	if err != nil {
		return nil, err
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.DataZoomOpts{},
		charts.TitleOpts{Title: title},
		charts.XAxisOpts{Name: "Time (sec)"},
		charts.YAxisOpts{Name: "Response (ms)"},
	)
	line.AddXAxis(d["rps"].XValues)
	for _, k := range []string{"rps", "p50", "p95", "p99"} {
		line.AddYAxis(k, d[k].YValues, defaultMaxLabel(k)...)
	}
	return line, nil
}

func RenderEChart(data *charts.Line, name string) error {
	f, err := CreateFileOrReplace(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return data.Render(f)
}

// draws max label for every line
func defaultMaxLabel(metric string) []charts.SeriesOptser {
	return []charts.SeriesOptser{
		charts.MPNameTypeItem{Name: "max " + metric, Type: "max"},
		charts.MPStyleOpts{Label: charts.LabelTextOpts{Show: true}},
	}
}
