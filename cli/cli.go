package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"vectorcraft-admin/config"
	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"
)

type stdoutNotifier struct{}

func (stdoutNotifier) Success(msg string) { fmt.Println(msg) }
func (stdoutNotifier) Failure(msg string) { fmt.Fprintln(os.Stderr, msg) }

func Run() {
	applyCmd := flag.NewFlagSet("apply", flag.ExitOnError)
	auto := applyCmd.Bool("auto", false, "enable auto-optimization")
	level := applyCmd.String("cache", "medium", "cache level: low|medium|high|aggressive")
	pool := applyCmd.Int("pool", tuning.DefaultPoolSize, "db pool size")
	timeout := applyCmd.Int("timeout", tuning.DefaultTimeoutSec, "request timeout seconds")

	resetCmd := flag.NewFlagSet("reset", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println("commands: apply, reset")
		return
	}

	switch os.Args[1] {
	case "apply":
		_ = applyCmd.Parse(os.Args[2:])
		panel := newPanel()
		panel.SetAutoOptimization(*auto)
		lvl, ok := tuning.ParseCacheLevel(*level)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown cache level %q, using medium\n", *level)
		}
		panel.SetCacheLevel(lvl)
		panel.SetPoolSize(*pool)
		panel.SetRequestTimeout(*timeout)
		if err := panel.Apply(context.Background()); err != nil {
			os.Exit(1)
		}
	case "reset":
		_ = resetCmd.Parse(os.Args[2:])
		panel := newPanel()
		panel.ResetDefaults()
		if err := panel.Apply(context.Background()); err != nil {
			os.Exit(1)
		}
	default:
		fmt.Println("unknown command")
	}
}

func newPanel() *tuning.Panel {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger().Fatalf("config load failed: %v", err)
	}
	backend := cfg.Tuning.BackendURL
	if backend == "" {
		backend = "http://" + cfg.ListenAddr
	}
	var subOpts []tuning.HTTPSubmitterOption
	if cfg.Tuning.ApplyTimeoutSec > 0 {
		subOpts = append(subOpts, tuning.WithSubmitTimeout(time.Duration(cfg.Tuning.ApplyTimeoutSec)*time.Second))
	}
	submitter := tuning.NewHTTPSubmitter(backend, subOpts...)
	var panelOpts []tuning.PanelOption
	if cfg.Tuning.ApplyTimeoutSec > 0 {
		panelOpts = append(panelOpts, tuning.WithApplyTimeout(time.Duration(cfg.Tuning.ApplyTimeoutSec)*time.Second))
	}
	return tuning.NewPanel(submitter, stdoutNotifier{}, panelOpts...)
}
