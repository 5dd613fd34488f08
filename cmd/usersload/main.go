/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package main

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/Czer0C/usersload"
)

func main() {
	cfg, err := usersload.LoadConfig()
	if err != nil {
		usersload.NewLogger(&usersload.RunnerConfig{LogLevel: "info", LogEncoding: "console"}).Fatalf("failed to load config: %v", err)
	}
	l := usersload.NewLogger(cfg)
	a := usersload.AttackerFromString(cfg.AttackerName)
	if a == nil {
		l.Fatalf("unknown attacker: %s", cfg.AttackerName)
	}
	r := usersload.NewRunner(cfg, a, nil)
	maxRPS, err := r.Run(context.Background())
	if err != nil {
		l.Errorf("test failed: %v", err)
		os.Exit(1)
	}
	l.Infof("max rps: %.2f", maxRPS)
	if atomic.LoadInt64(&r.Failed) > 0 {
		l.Errorf("success ratio is below %.2f", cfg.SuccessRatio)
		os.Exit(1)
	}
}
