package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"oversee/internal/app"
	overseeclient "oversee/internal/client"
	"oversee/internal/config"
	"oversee/internal/logging"
	"oversee/internal/types"
)

const usageText = `oversee is a terminal dashboard for the agent governance backend.

Usage:
  oversee <command> [flags]

Commands:
  ui        run the interactive dashboard (default)
  status    print backend connectivity
  export    download a CSV export
  version   print version
  help      show help

Flags:
  -h, --help   show help

Export flags:
  --kind      metrics or decisions (default metrics)
  --agent     agent filter (default All)
  --days      day window: 1, 7 or 30 (default 7)
  --status    decision status filter (decisions only, default pending)
  --out       output directory (default from settings)

Examples:
  oversee
  oversee status
  oversee export --kind decisions --agent invoice-bot --days 30
`

const version = "dev"

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		exitOnErr("ui", runUI(nil))
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "status":
		exitOnErr("status", runStatus(args[1:]))
	case "export":
		exitOnErr("export", runExport(args[1:]))
	case "version":
		fmt.Fprintln(os.Stdout, buildVersion())
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backend := fs.String("backend", "", "backend address override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if *backend != "" {
		settings.Backend.Address = *backend
	}

	logger, closeLog, err := openLogger(settings)
	if err != nil {
		return err
	}
	defer closeLog()

	client := overseeclient.New(settings.BackendBaseURL())
	return app.Run(app.NewClientAPI(client), settings, logger)
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()
	client := overseeclient.New(settings.BackendBaseURL())
	status, err := client.DBStatus(ctx)
	if err != nil {
		fmt.Fprintf(os.Stdout, "%s unreachable: %v\n", settings.BackendBaseURL(), err)
		os.Exit(1)
	}
	if !status.Available {
		fmt.Fprintf(os.Stdout, "%s reachable, database unavailable\n", settings.BackendBaseURL())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "%s ok\n", settings.BackendBaseURL())
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	kind := fs.String("kind", "metrics", "metrics or decisions")
	agent := fs.String("agent", types.AgentAll, "agent filter")
	days := fs.Int("days", 7, "day window: 1, 7 or 30")
	status := fs.String("status", "pending", "decision status filter")
	out := fs.String("out", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	dir := *out
	if dir == "" {
		dir, err = settings.ExportDir()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := overseeclient.New(settings.BackendBaseURL())

	name := *kind + "-" + time.Now().Format("20060102-150405") + ".csv"
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	var n int64
	switch *kind {
	case "metrics":
		filter := types.TrendFilter{Agent: *agent, Days: *days}
		n, err = client.ExportMetricsCSV(ctx, filter, file)
	case "decisions":
		filter := types.ExportFilter{Agent: *agent, Status: *status, Days: *days, Format: "csv"}
		n, err = client.ExportDecisions(ctx, filter, file)
	default:
		err = fmt.Errorf("unknown export kind: %s", *kind)
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %d bytes to %s\n", n, path)
	return nil
}

// openLogger routes log output to a file. The UI owns the terminal, so
// nothing may write to stderr while it runs.
func openLogger(settings config.Settings) (logging.Logger, func(), error) {
	logPath, err := config.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(file, logging.ParseLevel(settings.LogLevel()))
	return logger, func() { _ = file.Close() }, nil
}

func exitOnErr(label string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
