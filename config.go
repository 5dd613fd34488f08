/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// SystemMode selects how attackers are driven
type SystemMode int

const (
	// PrivateSystem constant pool of attackers pulling rate limited tokens
	PrivateSystem SystemMode = iota
	// OpenWorldSystem every token fires in a new goroutine
	OpenWorldSystem
	// UserSystem every attacker is a simulated user looping Do -> wait
	UserSystem
)

func (m SystemMode) String() string {
	switch m {
	case PrivateSystem:
		return "private"
	case OpenWorldSystem:
		return "open"
	case UserSystem:
		return "users"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// UnmarshalText parses mode from env
func (m *SystemMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "private":
		*m = PrivateSystem
	case "open":
		*m = OpenWorldSystem
	case "users":
		*m = UserSystem
	default:
		return fmt.Errorf("unknown system mode: %q", text)
	}
	return nil
}

// ReportOptions report options
type ReportOptions struct {
	// Dir where report files are written, current dir by default
	Dir string `env:"DIR"`
	// CSV writes requests and percentiles logs
	CSV bool `env:"CSV"`
	// PNG renders percentiles chart to png, requires CSV
	PNG bool `env:"PNG"`
	// HTML renders percentiles chart to html, requires CSV
	HTML bool `env:"HTML"`
	// Stream sends every reported tick samples to Runner.OutResults
	Stream bool `env:"STREAM"`
}

// Prometheus metrics and pprof endpoint
type Prometheus struct {
	Enable bool `env:"ENABLE"`
	Port   int  `env:"PORT" envDefault:"2112"`
}

// RunnerConfig runner configuration
type RunnerConfig struct {
	// TargetUrl target base url
	TargetUrl string `env:"TARGET"`
	// Name of a runner instance
	Name string `env:"NAME" envDefault:"create_user"`
	// AttackerName registered attacker used by cmd
	AttackerName string `env:"ATTACKER" envDefault:"create_user"`
	// SystemMode private|open|users
	SystemMode SystemMode `env:"SYSTEM_MODE" envDefault:"users"`
	// Attackers constant amount of attackers, simulated users in UserSystem mode
	Attackers int `env:"ATTACKERS" envDefault:"10"`
	// AttackerTimeout timeout of attacker
	AttackerTimeout int `env:"ATTACKER_TIMEOUT" envDefault:"10"`
	// SpawnRate users started per second in UserSystem mode, all at once if 0
	SpawnRate int `env:"SPAWN_RATE"`
	// WaitTimeMin lower bound of the wait between user iterations if attack is not a Waiter
	WaitTimeMin time.Duration `env:"WAIT_TIME_MIN"`
	// WaitTimeMax upper bound of the wait between user iterations if attack is not a Waiter
	WaitTimeMax time.Duration `env:"WAIT_TIME_MAX"`
	// StartRPS start amount of requests per second
	StartRPS int `env:"START_RPS"`
	// StepDurationSec duration of step in which rps is increased by StepRPS
	StepDurationSec int `env:"STEP_DURATION_SEC"`
	// StepRPS amount of requests per second which will be added in next step
	StepRPS int `env:"STEP_RPS"`
	// TestTimeSec test timeout
	TestTimeSec int `env:"TEST_TIME_SEC" envDefault:"60"`
	// WaitBeforeSec time to wait before start in case we didn't know start criteria
	WaitBeforeSec int `env:"WAIT_BEFORE_SEC"`
	// SuccessRatio fails the test if tick success ratio is lower
	SuccessRatio float64 `env:"SUCCESS_RATIO"`
	// DumpTransport dump http requests to stdout
	DumpTransport bool `env:"DUMP_TRANSPORT"`
	// GoroutinesDump dumps goroutines on exit signal
	GoroutinesDump bool `env:"GOROUTINES_DUMP"`
	// LogLevel debug|info, etc.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogEncoding json|console
	LogEncoding string `env:"LOG_ENCODING" envDefault:"console"`

	ReportOptions *ReportOptions `envPrefix:"REPORT_"`
	Prometheus    *Prometheus    `envPrefix:"PROMETHEUS_"`
}

// LoadConfig reads runner config from environment
func LoadConfig() (*RunnerConfig, error) {
	cfg := &RunnerConfig{
		ReportOptions: &ReportOptions{},
		Prometheus:    &Prometheus{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all settings and returns a list of strings with problems.
func (c RunnerConfig) Validate() (list []string) {
	if c.Attackers <= 0 && c.SystemMode != OpenWorldSystem {
		list = append(list, "please set attackers > 0")
	}
	if c.AttackerTimeout <= 0 {
		list = append(list, "please set attacker timeout > 0, seconds")
	}
	if c.SystemMode != UserSystem && c.StartRPS <= 0 {
		list = append(list, "please set start rps > 0")
	}
	if c.StepDurationSec < 0 {
		list = append(list, "please set step duration >= 0, seconds")
	}
	if c.StepRPS < 0 || (c.StepRPS > 0 && c.StepDurationSec == 0) {
		list = append(list, "please set step rps >= 0 and step duration > 0 for stepped load")
	}
	if c.TestTimeSec <= 0 {
		list = append(list, "please set test time > 0, seconds")
	}
	if c.SpawnRate < 0 {
		list = append(list, "please set spawn rate >= 0")
	}
	if c.WaitTimeMin < 0 || c.WaitTimeMax < c.WaitTimeMin {
		list = append(list, "please set 0 <= wait time min <= wait time max")
	}
	if c.SuccessRatio < 0 || c.SuccessRatio > 1 {
		list = append(list, "please set success ratio in [0, 1]")
	}
	return
}

// DefaultCfgValues fills values which can be omitted
func (c *RunnerConfig) DefaultCfgValues() {
	if c.SystemMode == OpenWorldSystem && c.Attackers == 0 {
		c.Attackers = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogEncoding == "" {
		c.LogEncoding = "console"
	}
	if c.ReportOptions == nil {
		c.ReportOptions = &ReportOptions{}
	}
}
