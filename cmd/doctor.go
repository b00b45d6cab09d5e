package cmd

import (
	"context"
	"flag"
	"fmt"
	"os/exec"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
)

// doctorCommand reports the effective config and checks the stored tasks
// without modifying them.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskboard doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Show where each setting came from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "Taskboard Doctor")
	fmt.Fprintln(stdout, "================")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	if file := cws.ConfigFile(); file != "" {
		fmt.Fprintf(stdout, "  File: %s\n", file)
	} else {
		fmt.Fprintln(stdout, "  File: (none, using defaults)")
	}
	settings := []struct {
		key   string
		value string
	}{
		{"store_driver", cfg.StoreDriver},
		{"store_path", cfg.StorePath},
		{"storage_key", cfg.StorageKey},
		{"time_format", cfg.TimeFormat},
		{"hook_command", cfg.HookCommand},
		{"log_dir", cfg.LogDir},
		{"log_level", cfg.LogLevel},
	}
	for _, s := range settings {
		if *verbose {
			fmt.Fprintf(stdout, "  %s = %q (%s)\n", s.key, s.value, cws.Sources[s.key])
		} else {
			fmt.Fprintf(stdout, "  %s = %q\n", s.key, s.value)
		}
	}
	fmt.Fprintln(stdout)

	if cfg.HookCommand != "" {
		fmt.Fprintln(stdout, "Hook:")
		if path, err := exec.LookPath(cfg.HookCommand); err != nil {
			fmt.Fprintf(stdout, "  ❌ %s: %v\n", cfg.HookCommand, err)
			allOK = false
		} else {
			fmt.Fprintf(stdout, "  ✅ %s\n", path)
		}
		fmt.Fprintln(stdout)
	}

	fmt.Fprintln(stdout, "Stored tasks:")
	kv, adapter, err := openAdapter(cfg, logging.New(stderr, logging.Options{Level: "error"}))
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		allOK = false
	} else {
		defer kv.Close()
		report, err := adapter.Check(ctx)
		switch {
		case err != nil:
			fmt.Fprintf(stdout, "  ❌ Read failed: %v\n", err)
			allOK = false
		case !report.Found:
			fmt.Fprintf(stdout, "  ✅ No snapshot under %q yet\n", adapter.Key())
		case report.Valid():
			fmt.Fprintf(stdout, "  ✅ %d pending, %d completed\n", report.Pending, report.Completed)
		default:
			fmt.Fprintf(stdout, "  ❌ Snapshot under %q is malformed:\n", adapter.Key())
			for _, p := range report.Problems {
				fmt.Fprintf(stdout, "     - %v\n", p)
			}
			allOK = false
		}
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// logsCommand prints the latest interactive session log.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskboard logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}
