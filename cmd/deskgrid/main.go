package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: deskgrid daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: deskgrid daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "arrange", "restore", "toggle":
		os.Exit(runAction(os.Args[1], os.Args[2:]))
	case "dismiss":
		os.Exit(runDismiss(os.Args[2:]))
	case "obscured":
		os.Exit(runObscured(os.Args[2:]))
	case "profile":
		os.Exit(runProfile(os.Args[2:]))
	case "plan":
		os.Exit(runPlan(os.Args[2:], os.Stdout))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:], os.Stdout))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskgrid <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the deskgrid daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange             Arrange the windows of the active display")
	fmt.Fprintln(w, "  restore             Put arranged windows back")
	fmt.Fprintln(w, "  toggle              Arrange, or restore when arranged")
	fmt.Fprintln(w, "  dismiss <id>        Drop a window from the overview")
	fmt.Fprintln(w, "  obscured            List windows hidden behind others")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  profile list        List layout profiles")
	fmt.Fprintln(w, "  profile set <name>  Select the profile used by arrange")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  plan <file>         Lay out a scenario file offline")
	fmt.Fprintln(w, "  tui [file]          Open the interactive layout playground")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskgrid <command> --help' for command-specific options.")
}

// noArgs parses a flag set for a command that takes no positional arguments.
// The returned code is -1 when the command should proceed.
func noArgs(name, usage string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskgrid %s\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, usage)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	return -1
}

func runStatus(args []string) int {
	if rc := noArgs("status", "Show daemon status via IPC.", args); rc >= 0 {
		return rc
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("active_profile: %s\n", status.ActiveProfile)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("overviews:      %d\n", len(status.Overviews))
	for _, ov := range status.Overviews {
		fmt.Printf("  display %d: %s, %d shown, %d hidden, last pass %s\n",
			ov.DisplayID, ov.Profile, ov.Rendered, ov.Hidden, ov.LastPath)
	}
	return 0
}

func runAction(name string, args []string) int {
	usage := map[string]string{
		"arrange": "Arrange every window of the active display into a grid.",
		"restore": "Move arranged windows back to where they were.",
		"toggle":  "Arrange when no overview is showing, restore otherwise.",
	}[name]
	if rc := noArgs(name, usage, args); rc >= 0 {
		return rc
	}

	client := ipc.NewClient()
	var err error
	switch name {
	case "arrange":
		err = client.Arrange()
	case "restore":
		err = client.Restore()
	case "toggle":
		err = client.Toggle()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDismiss(args []string) int {
	if len(args) == 1 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: deskgrid dismiss <window-id>")
		return 0
	}
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: deskgrid dismiss <window-id>")
		return 2
	}
	id, err := parseWindowID(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().Dismiss(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// parseWindowID accepts decimal or 0x-prefixed hex ids as printed by xprop
// and wmctrl.
func parseWindowID(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(v), nil
}

func runObscured(args []string) int {
	if rc := noArgs("obscured", "List windows on the active display that are completely covered.", args); rc >= 0 {
		return rc
	}

	data, err := ipc.NewClient().Obscured()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(data.Windows) == 0 {
		fmt.Println("no obscured windows")
		return 0
	}
	for _, w := range data.Windows {
		fmt.Printf("0x%08x  %-20s %s  %s\n", w.ID, w.Class, w.Bounds, w.Title)
	}
	return 0
}

func printProfileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskgrid profile list")
	fmt.Fprintln(w, "  deskgrid profile set <name>")
}

func runProfile(args []string) int {
	if len(args) == 0 {
		printProfileUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		if len(args) != 1 {
			printProfileUsage(os.Stderr)
			return 2
		}
		return runProfileList()
	case "set":
		if len(args) != 2 {
			printProfileUsage(os.Stderr)
			return 2
		}
		if err := ipc.NewClient().SetProfile(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("active profile: %s\n", args[1])
		return 0
	case "help", "-h", "--help":
		printProfileUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown profile subcommand: %s\n\n", args[0])
		printProfileUsage(os.Stderr)
		return 2
	}
}

// runProfileList asks the daemon first and falls back to the config file.
func runProfileList() int {
	var names []string
	var def, active string

	if data, err := ipc.NewClient().ListProfiles(); err == nil {
		names, def, active = data.Profiles, data.DefaultProfile, data.ActiveProfile
	} else {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		names, def = cfg.ProfileNames(), cfg.DefaultProfile
	}

	for _, name := range names {
		var marks []string
		if name == def {
			marks = append(marks, "default")
		}
		if name == active {
			marks = append(marks, "active")
		}
		if len(marks) > 0 {
			fmt.Printf("%s (%s)\n", name, strings.Join(marks, ", "))
		} else {
			fmt.Println(name)
		}
	}
	return 0
}

func runConfig(args []string, stdout io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  deskgrid config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  deskgrid config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  deskgrid config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *printEffective && *printDefaults {
			fmt.Fprintln(os.Stderr, "--effective and --defaults are mutually exclusive")
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfigResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Fprintf(stdout, "path: %s\n", queryPath)
		fmt.Fprintf(stdout, "source: %s\n", formatSource(src))
		fmt.Fprintf(stdout, "value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

// parseLogLevel maps the config's log_level onto slog levels.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}
