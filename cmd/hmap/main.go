// Hmap builds and inspects clang header map (.hmap) files.
//
// Usage:
//
//	hmap build --output Foo.hmap Foo/Bar.h=/src/foo/Bar.h ...
//	hmap build --manifest maps.yaml
//	hmap dump Foo.hmap
//	hmap lookup Foo.hmap Foo/Bar.h ...
//	hmap verify Foo.hmap
package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tamirms/headermap"
	"github.com/tamirms/headermap/internal/manifest"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("missing command")
	}

	switch args[0] {
	case "build":
		return runBuild(args[1:], stdout)
	case "dump":
		return runDump(args[1:], stdout)
	case "lookup":
		return runLookup(args[1:], stdout)
	case "verify":
		return runVerify(args[1:], stdout)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `hmap: build and inspect clang header maps.

Usage:
  hmap build [--output FILE] [--manifest FILE] [KEY=PATH ...]
  hmap dump FILE
  hmap lookup FILE KEY ...
  hmap verify FILE

Run "hmap COMMAND --help" for command flags.
`)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runBuild(args []string, stdout io.Writer) error {
	var output, manifestPath, separator string
	var bigEndian, verbose bool
	var workers int

	flagSet := pflag.NewFlagSet("hmap build", pflag.ContinueOnError)
	flagSet.StringVarP(&output, "output", "o", "", "header map to write for KEY=PATH arguments")
	flagSet.StringVarP(&manifestPath, "manifest", "m", "", "YAML or JSONC manifest listing maps to write")
	flagSet.StringVar(&separator, "separator", "/", "path separator used to split values")
	flagSet.BoolVar(&bigEndian, "big-endian", false, "write big-endian header maps")
	flagSet.IntVar(&workers, "workers", 0, "maps to build concurrently (0 = GOMAXPROCS)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every written map")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	logger := newLogger(verbose)

	if len(separator) != 1 {
		return fmt.Errorf("--separator must be a single byte, got %q", separator)
	}
	sep := separator[0]

	var jobs []headermap.Job
	if manifestPath != "" {
		m, err := manifest.ReadFile(manifestPath)
		if err != nil {
			return err
		}
		jobs = m.Jobs(filepath.Dir(manifestPath), sep)
	}
	if pairs := flagSet.Args(); len(pairs) > 0 {
		if output == "" {
			return errors.New("--output is required with KEY=PATH arguments")
		}
		job, err := jobFromPairs(output, pairs, sep)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return errors.New("nothing to build: pass --manifest or KEY=PATH arguments")
	}

	opts := []headermap.BuildOption{
		headermap.WithSeparator(sep),
		headermap.WithWorkers(workers),
	}
	if bigEndian {
		opts = append(opts, headermap.WithByteOrder(binary.BigEndian))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := headermap.WriteAll(ctx, jobs, opts...)
	if err != nil {
		return err
	}
	for _, r := range results {
		for _, e := range r.Rejected {
			logger.Warn("conflicting duplicate key dropped",
				"map", r.Path, "key", e.Key, "value", e.Value())
		}
		logger.Debug("header map built",
			"map", r.Path, "entries", r.Entries, "written", r.Written,
			"digest", hex.EncodeToString(r.Digest[:]))
		fmt.Fprintln(stdout, r.Path)
	}
	return nil
}

func jobFromPairs(output string, pairs []string, sep byte) (headermap.Job, error) {
	entries := make([]headermap.Entry, 0, len(pairs))
	for _, pair := range pairs {
		key, path, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return headermap.Job{}, fmt.Errorf("invalid entry %q: want KEY=PATH", pair)
		}
		prefix, suffix := headermap.SplitPath(path, sep)
		entries = append(entries, headermap.Entry{Key: key, Prefix: prefix, Suffix: suffix})
	}
	return headermap.Job{Path: output, Entries: entries}, nil
}

func openOne(name string, args []string, minArgs int) (*headermap.HeaderMap, []string, error) {
	flagSet := pflag.NewFlagSet("hmap "+name, pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}
	rest := flagSet.Args()
	if len(rest) < minArgs {
		return nil, nil, fmt.Errorf("hmap %s: expected a header map path", name)
	}
	m, err := headermap.Open(rest[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", rest[0], err)
	}
	return m, rest[1:], nil
}

func runDump(args []string, stdout io.Writer) error {
	m, _, err := openOne("dump", args, 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "# entries=%d buckets=%d max-value-length=%d byte-order=%s\n",
		m.NumEntries(), m.NumBuckets(), m.MaxValueLength(), m.ByteOrder())
	fmt.Fprint(stdout, m.String())
	return nil
}

func runLookup(args []string, stdout io.Writer) error {
	m, keys, err := openOne("lookup", args, 2)
	if err != nil {
		return err
	}
	missing := 0
	for _, key := range keys {
		value, ok := m.Lookup(key)
		if !ok {
			missing++
			fmt.Fprintf(stdout, "%s\t(not found)\n", key)
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\n", key, value)
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d keys not found", missing, len(keys))
	}
	return nil
}

// runVerify decodes the file, re-encodes it, and checks that every entry is
// reachable through its probe chain.
func runVerify(args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("hmap verify", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() == 0 {
		return errors.New("hmap verify: expected a header map path")
	}
	path := flagSet.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	m, err := headermap.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	unreachable := 0
	for e := range m.Entries() {
		if v, ok := m.Lookup(e.Key); !ok || v != e.Value() {
			unreachable++
		}
	}
	identical := bytes.Equal(m.Bytes(), data)
	digest := m.Digest()

	fmt.Fprintf(stdout, "%s: entries=%d buckets=%d round-trip-identical=%t unreachable=%d digest=%s\n",
		path, m.NumEntries(), m.NumBuckets(), identical, unreachable, hex.EncodeToString(digest[:]))
	if unreachable > 0 {
		return fmt.Errorf("%s: %d entries not reachable by lookup", path, unreachable)
	}
	return nil
}
