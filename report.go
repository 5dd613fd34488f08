/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Report struct {
	runId               string
	runName             string
	metricsLogFilename  string
	percsReportFilename string
	percsPNGFilename    string
	percLogFilename     string
	files               []*os.File
	metricsLogFile      *csv.Writer
	percLogFile         *csv.Writer
	reportOptions       *ReportOptions
	L                   *Logger
}

func NewReport(cfg *RunnerConfig) *Report {
	tn := time.Now().Unix()
	runId := uuid.New().String()
	dir := cfg.ReportOptions.Dir
	r := &Report{
		runId:               runId,
		runName:             cfg.Name,
		metricsLogFilename:  filepath.Join(dir, fmt.Sprintf(MetricsLogFile, cfg.Name, runId, tn)),
		percsReportFilename: filepath.Join(dir, fmt.Sprintf(ReportGraphFile, cfg.Name, runId, tn)),
		percsPNGFilename:    filepath.Join(dir, fmt.Sprintf(ReportPNGFile, cfg.Name, runId, tn)),
		percLogFilename:     filepath.Join(dir, fmt.Sprintf(PercsLogFile, cfg.Name, runId, tn)),
		reportOptions:       cfg.ReportOptions,
		L:                   NewLogger(cfg).With("report", cfg.Name),
	}
	r.metricsLogFile = csv.NewWriter(r.createFile(r.metricsLogFilename))
	r.percLogFile = csv.NewWriter(r.createFile(r.percLogFilename))
	_ = r.metricsLogFile.Write(ResultsCsvHeader)
	_ = r.percLogFile.Write(PercsCsvHeader)
	return r
}

func (r *Report) createFile(fname string) *os.File {
	f, err := CreateFileOrReplace(fname)
	if err != nil {
		r.L.Fatal(err)
	}
	r.files = append(r.files, f)
	return f
}

func (r *Report) plot() {
	if r.reportOptions.HTML {
		r.L.Infof("reporting html graphs: %s", r.percsReportFilename)
		chart, err := PercsChart(r.percLogFilename, r.runName)
		if err != nil {
			r.L.Error(err)
		} else if err := RenderEChart(chart, r.percsReportFilename); err != nil {
			r.L.Error(err)
		}
	}
	if r.reportOptions.PNG {
		r.L.Infof("reporting png graphs: %s", r.percsPNGFilename)
		chart, err := ResponsesChart(r.runName, r.percLogFilename)
		if err != nil {
			r.L.Error(err)
		} else if err := RenderChart(chart, r.percsPNGFilename); err != nil {
			r.L.Error(err)
		}
	}
}

// flushLogs flushes and closes csv logs, report is not writable after
func (r *Report) flushLogs() {
	r.percLogFile.Flush()
	r.metricsLogFile.Flush()
	for _, f := range r.files {
		if err := f.Close(); err != nil {
			r.L.Error(err)
		}
	}
}

func (r *Report) writeResultEntry(res AttackResult, errorMsg string) {
	_ = r.metricsLogFile.Write([]string{
		res.DoResult.RequestLabel,
		strconv.FormatInt(res.Begin.UnixNano(), 10),
		strconv.FormatInt(res.End.UnixNano(), 10),
		res.Elapsed.String(),
		strconv.Itoa(res.DoResult.StatusCode),
		errorMsg,
	})
}

func (r *Report) writePercentilesEntry(label string, tick int, tickMetrics *Metrics) {
	_ = r.percLogFile.Write([]string{
		label,
		strconv.Itoa(tick),
		strconv.Itoa(int(tickMetrics.Rate)),
		strconv.Itoa(int(tickMetrics.Latencies.P50.Milliseconds())),
		strconv.Itoa(int(tickMetrics.Latencies.P95.Milliseconds())),
		strconv.Itoa(int(tickMetrics.Latencies.P99.Milliseconds())),
	})
}
