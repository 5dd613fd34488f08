package usersload

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var metricsServerOnce sync.Once

func pprofHandlers(r *http.ServeMux) {
	r.HandleFunc("/debug/pprof/", pprof.Index)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// metricsMux serves prometheus metrics and pprof
func metricsMux() *http.ServeMux {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	pprofHandlers(m)
	return m
}

// startMetricsServer starts metrics server once per process, next runners reuse it
func startMetricsServer(port int, l *Logger) {
	if port == 0 {
		port = 2112
	}
	metricsServerOnce.Do(func() {
		addr := fmt.Sprintf(":%d", port)
		l.Infof("serving metrics on %s", addr)
		go func() {
			if err := http.ListenAndServe(addr, metricsMux()); err != nil {
				l.Errorf("metrics server: %v", err)
			}
		}()
	})
}
