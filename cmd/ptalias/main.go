// Command ptalias runs the whole-program points-to/alias analysis over a
// set of entry modules and writes a points-to/call-graph report (§6.4); the
// report does not include the class hierarchy. It is a thin driver: all flags and config here only decide how to
// call internal/solve and internal/serial; none of the analysis itself
// lives in this package, matching the teacher's own cmd/guru split between
// a flag-parsing main and the real work in its library packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/frontend"
	"github.com/ptalias/ptalias/internal/resolve"
	"github.com/ptalias/ptalias/internal/serial"
	"github.com/ptalias/ptalias/internal/solve"
)

// config is the YAML project file's shape (§6.4's "informative" flag list,
// made persistent). Flags passed on the command line override the
// corresponding config field.
type config struct {
	Dir             string   `yaml:"dir"`
	Entries         []string `yaml:"entries"`
	Mode            string   `yaml:"mode"` // "insensitive" or "k=N"
	Output          string   `yaml:"output"`
	Format          string   `yaml:"format"` // "json" or "markdown"
	CallGraphPrefix string   `yaml:"call_graph_prefix"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ptalias:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("ptalias", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML project config file")
	dir := fs.String("dir", "", "working directory containing entry files")
	entries := fs.String("entries", "", "comma-separated entry file paths, relative to -dir")
	mode := fs.String("mode", "", `analysis mode: "insensitive" or "k=N"`)
	output := fs.String("o", "", "output report path (default: stdout)")
	format := fs.String("format", "", `report format: "json" or "markdown"`)
	prefix := fs.String("call-graph-prefix", "", "only include callers whose readable name has this prefix in the report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config{Mode: "insensitive", Format: "json"}
	if *configPath != "" {
		doc, err := os.ReadFile(*configPath)
		if err != nil {
			return xerrors.Errorf("reading config %s: %w", *configPath, err)
		}
		if err := yaml.Unmarshal(doc, &cfg); err != nil {
			return xerrors.Errorf("parsing config %s: %w", *configPath, err)
		}
	}
	if *dir != "" {
		cfg.Dir = *dir
	}
	if *entries != "" {
		cfg.Entries = strings.Split(*entries, ",")
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *prefix != "" {
		cfg.CallGraphPrefix = *prefix
	}
	if len(cfg.Entries) == 0 {
		return xerrors.New("no entry files given (-entries or config's entries:)")
	}

	sel, err := parseMode(cfg.Mode)
	if err != nil {
		return xerrors.Errorf("parsing -mode: %w", err)
	}

	r := resolve.New()
	loaders, err := buildLoaders(cfg.Dir, cfg.Entries)
	if err != nil {
		return err
	}

	modules, err := frontend.Load(context.Background(), r, loaders...)
	if err != nil {
		return xerrors.Errorf("loading entries: %w", err)
	}

	s := solve.New(sel, nil)
	if err := s.Run(modules); err != nil {
		return xerrors.Errorf("solving: %w", err)
	}

	report := serial.BuildReport(s)
	if cfg.CallGraphPrefix != "" {
		filtered := report.CallGraph[:0]
		for _, e := range report.CallGraph {
			if strings.HasPrefix(e.Caller, cfg.CallGraphPrefix) {
				filtered = append(filtered, e)
			}
		}
		report.CallGraph = filtered
	}

	var out []byte
	switch cfg.Format {
	case "markdown":
		out, err = report.Markdown()
	default:
		out, err = report.JSON()
	}
	if err != nil {
		return xerrors.Errorf("rendering report: %w", err)
	}

	if cfg.Output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(cfg.Output, out, 0o644)
}

// buildLoaders reads each entry's YAML-encoded IR fixture (§6.1, since
// source parsing is out of scope) off disk and wraps it as a
// frontend.Loader, keyed by the file's basename with its extension
// stripped.
func buildLoaders(dir string, entries []string) ([]frontend.Loader, error) {
	loaders := make([]frontend.Loader, len(entries))
	for i, rel := range entries {
		path := rel
		if dir != "" {
			path = filepath.Join(dir, rel)
		}
		doc, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("reading entry %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
		loaders[i] = frontend.YAMLLoader(name, doc)
	}
	return loaders, nil
}

// parseMode turns §6.4's mode string into a ctx.Selector: "insensitive" is
// K=0, "k=N" is context-sensitive with that K.
func parseMode(mode string) (ctx.Selector, error) {
	if mode == "" || mode == "insensitive" {
		return ctx.Selector{K: 0}, nil
	}
	var k int
	if _, err := fmt.Sscanf(mode, "k=%d", &k); err != nil {
		return ctx.Selector{}, xerrors.Errorf("mode must be \"insensitive\" or \"k=N\", got %q", mode)
	}
	return ctx.Selector{K: k}, nil
}
