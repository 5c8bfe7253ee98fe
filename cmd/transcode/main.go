package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/engines"
	"asset-transcoder/internal/logging"
	"asset-transcoder/internal/transcode"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	// Default timeout for a single render
	defaultTimeout = 30 * time.Second
	// Default universal config name
	defaultConfigName = "transcode"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	logging.SetLevel(logging.LevelWarn)
	if level, ok := logging.ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		logging.SetLevel(level)
	}

	configName := os.Getenv("TRANSCODE_CONFIG_NAME")
	if configName == "" {
		configName = defaultConfigName
	}

	tty := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115 - file descriptors fit in int

	command := os.Args[1]
	args := os.Args[2:]

	var code int
	switch command {
	case "render":
		code = runRender(ctx, args, configName, os.Stdout, os.Stderr, tty)
	case "config":
		code = runConfig(args, configName, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command)) //nolint:gosec // G705 - input is sanitized via allowlist
		printUsage(os.Stderr)
		code = 1
	}

	cancel()
	os.Exit(code)
}

// sanitizeCommand replaces every character outside [a-zA-Z0-9_-] with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Asset Transcoder")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: transcode <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render <dir> <path>  - Transform the asset a GET of <path> would serve")
	fmt.Fprintln(w, "  config <dir>         - Print the resolved configuration as YAML")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  TRANSCODE_CONFIG_NAME - Universal config name (default: %s)\n", defaultConfigName)
	fmt.Fprintln(w, "  LOG_LEVEL             - debug, info, warn or error (default: warn)")
}

// runRender writes the transformed body of urlPath to stdout. A header
// naming the source file and content type precedes the body when stdout
// is a terminal.
func runRender(ctx context.Context, args []string, configName string, stdout, stderr io.Writer, tty bool) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "Error: render requires <dir> and <path>")
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tr := transcode.New(args[0], transcode.RawOptions{ConfigName: configName})
	out, err := tr.Render(ctx, args[1])
	if errors.Is(err, transcode.ErrNotHandled) {
		fmt.Fprintf(stderr, "Error: %s is not a transcoded asset\n", args[1])
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if tty {
		fmt.Fprintf(stdout, "# %s (%s)\n", out.Fullpath, out.ContentType)
	}
	if _, err := io.WriteString(stdout, out.Body); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if tty && !strings.HasSuffix(out.Body, "\n") {
		fmt.Fprintln(stdout)
	}
	return 0
}

// configView is the YAML shape printed by the config command.
type configView struct {
	Dir     string                    `yaml:"dir"`
	Index   string                    `yaml:"index"`
	Kinds   map[string]kindConfigView `yaml:"kinds"`
	Sources map[string]string         `yaml:"sources,omitempty"`
}

type kindConfigView struct {
	FileExtensions []string       `yaml:"fileExtensions"`
	Plugins        []string       `yaml:"plugins,omitempty"`
	Options        map[string]any `yaml:"options,omitempty"`
}

func newConfigView(dir string, opts *transcode.ResolvedOptions) configView {
	view := configView{
		Dir:     dir,
		Index:   opts.Index,
		Kinds:   make(map[string]kindConfigView, len(assettypes.Kinds)),
		Sources: opts.Sources,
	}
	if !opts.IndexEnabled() {
		view.Index = "(disabled)"
	}

	for _, k := range assettypes.Kinds {
		ko := opts.Kind(k)
		kv := kindConfigView{
			FileExtensions: ko.FileExtensions,
			Options:        map[string]any(ko.Options),
		}
		for _, p := range ko.Plugins {
			kv.Plugins = append(kv.Plugins, pluginName(p))
		}
		view.Kinds[string(k)] = kv
	}
	return view
}

// pluginName describes a configured plugin for display.
func pluginName(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case engines.Plugin:
		return v.Name()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", p)
	}
}

func runConfig(args []string, configName string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Error: config requires <dir>")
		return 1
	}

	tr := transcode.New(args[0], transcode.RawOptions{ConfigName: configName})
	view := newConfigView(tr.Dir(), tr.Resolved())

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if len(view.Sources) > 0 {
		names := make([]string, 0, len(view.Sources))
		for name := range view.Sources {
			names = append(names, name)
		}
		sort.Strings(names)
		logging.Debug("config sources: %s", strings.Join(names, ", "))
	}
	return 0
}
