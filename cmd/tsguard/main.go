// Command tsguard analyses a PHP-like source file for unescaped taint
// reaching a sensitive sink, inferring types along the way.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/tsguard/tsguard/internal/analyzer"
	"github.com/tsguard/tsguard/internal/cache"
	"github.com/tsguard/tsguard/internal/config"
	"github.com/tsguard/tsguard/internal/diagnostics"
	"github.com/tsguard/tsguard/internal/parser"
	"github.com/tsguard/tsguard/internal/registry"
	"github.com/tsguard/tsguard/internal/report"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "this is a bug, please report it")
			os.Exit(1)
		}
	}()

	cachePath := flag.String("cache", "", "path to an incremental analysis cache database (disabled if empty)")
	configPath := flag.String("config", "", "path to tsguard.yaml (auto-discovered from the target's directory if empty)")
	uuidTag := flag.Bool("uuid", false, "tag this run's warnings with a random run ID")
	testMode := flag.Bool("test-mode", false, "set config.IsTestMode (does not change the output)")
	flag.Parse()

	config.IsTestMode = *testMode

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tsguard [flags] <file>")
		os.Exit(2)
	}
	target := flag.Arg(0)

	runID := ""
	if *uuidTag {
		runID = uuid.NewString()
	}

	if err := run(target, *cachePath, *configPath, runID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(target, cachePath, configPath, runID string) error {
	src, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	reg := registry.NewWithBuiltins()
	if cfg, err := loadConfig(target, configPath); err != nil {
		return err
	} else if cfg != nil {
		reg.ApplyConfig(cfg)
	}

	var store *cache.Store
	hash := contentHash(src)
	if cachePath != "" {
		store, err = cache.Open(cachePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if entry, hit, err := store.Get(target, hash); err == nil && hit {
			for name, fn := range entry.Funcs {
				reg.Funcs[name] = fn
			}
		}
	}

	sink := &diagnostics.CollectingSink{}
	p := parser.New(string(src), target)
	prog := p.ParseProgram()
	for _, d := range p.Errors() {
		sink.Emit(d)
	}

	a := analyzer.New(reg, sink, target)
	ctx := a.AnalyzeProgram(prog)

	if store != nil {
		entry := &cache.Entry{Funcs: reg.Funcs, GlobalDelta: ctx.Snapshot()}
		if err := store.Put(target, hash, entry); err != nil {
			return err
		}
	}

	if runID != "" {
		fmt.Fprintf(os.Stderr, "run %s\n", runID)
	}

	color := report.ColorEnabled(os.Stderr)
	report.Diagnostics(os.Stderr, sink.Diagnostics, color)
	fmt.Println(report.SummaryLine(report.Summary{
		FilesAnalyzed: 1,
		Warnings:      len(sink.Diagnostics),
		SourceBytes:   int64(len(src)),
	}))

	if len(sink.Diagnostics) > 0 {
		return fmt.Errorf("%d warning(s)", len(sink.Diagnostics))
	}
	return nil
}

func loadConfig(target, configPath string) (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Find(dirOf(target))
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
