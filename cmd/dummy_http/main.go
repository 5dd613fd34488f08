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
	"os/signal"
	"syscall"
	"time"

	"github.com/Czer0C/usersload"
)

const defaultAddr = "0.0.0.0:9031"

func main() {
	addr := os.Getenv("USERS_SERVICE_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	l := usersload.NewLogger(&usersload.RunnerConfig{LogLevel: "info", LogEncoding: "console"})
	s := usersload.RunUsersService(addr, 0, l)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		l.Errorf("shutdown: %v", err)
	}
	l.Infof("created users: %d", s.Users())
}
