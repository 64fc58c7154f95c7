// coltool is a CLI utility for inspecting collision (COL) files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/colkit/internal/config"
	"github.com/Faultbox/colkit/internal/export"
	"github.com/Faultbox/colkit/internal/loader"
	"github.com/Faultbox/colkit/internal/logger"
	"github.com/Faultbox/colkit/internal/web"
	"github.com/Faultbox/colkit/pkg/col"
)

// Exit codes
const (
	exitOK       = 0
	exitFailure  = 1
	exitWarnings = 2 // validate in strict mode found warnings
)

var cfg *config.Config

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(exitFailure)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	command := args[0]
	code := exitOK
	switch command {
	case "info":
		code = cmdInfo(ctx, args[1:])
	case "list", "ls":
		code = cmdList(ctx, args[1:])
	case "dump":
		code = cmdDump(ctx, args[1:])
	case "validate", "check":
		code = cmdValidate(ctx, args[1:])
	case "export", "x":
		code = cmdExport(ctx, args[1:])
	case "serve":
		code = cmdServe(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = exitFailure
	}

	stop()
	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`coltool - collision file utility

Usage:
  coltool [flags] <command> [options]

Commands:
  info <file.col>                     Show file information
  list <file.col> [pattern]           List models (optional glob pattern)
  dump <file.col> [index]             Dump decoded model(s)
  validate <file.col>...              Report diagnostics (exit 2 on warnings with -strict)
  export <file.col> <index> [output]  Export a model to glTF
  serve                               Start the HTTP browser

Flags:
  -config <path>   Config file
  -debug           Debug logging
  -strict          Strict validation
  -workers <n>     Parallel model decoders
  -addr <addr>     serve: listen address
  -root <dir>      serve: directory to browse

Examples:
  coltool info vehicles.col
  coltool list generic.col "lamp*"
  coltool -strict validate *.col
  coltool export vehicles.col 3 taxi.glb`)
}

func newLoader() *loader.Loader {
	return loader.New(cfg.Decode.Options(), logger.Named("loader"))
}

// load decodes path and prints the error when nothing could be decoded.
func load(ctx context.Context, path string) (*loader.Result, bool) {
	res, err := newLoader().Load(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return res, false
	}
	return res, true
}

func cmdInfo(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: coltool info <file.col>")
		return exitFailure
	}

	res, ok := load(ctx, args[0])
	if !ok {
		return exitFailure
	}
	a := res.Archive

	fmt.Printf("File:        %s\n", res.Path)
	fmt.Printf("Size:        %d bytes\n", res.Size)
	fmt.Printf("Load ID:     %s\n", res.ID)
	fmt.Printf("Models:      %d (%d signatures)\n", a.Len(), len(a.Signatures))
	fmt.Printf("Diagnostics: %d warnings, %d errors\n", res.Warnings, res.Errors)
	fmt.Println()

	versions := make(map[col.Version]int)
	var spheres, boxes, faces int
	for _, m := range a.Models() {
		versions[m.Version]++
		spheres += len(m.Spheres)
		boxes += len(m.Boxes)
		faces += len(m.Faces)
	}

	fmt.Println("Models by version:")
	for _, v := range []col.Version{col.Version1, col.Version2, col.Version3} {
		if versions[v] > 0 {
			fmt.Printf("  %-6s %d\n", v, versions[v])
		}
	}
	fmt.Println()
	fmt.Printf("Totals: %d spheres, %d boxes, %d faces\n", spheres, boxes, faces)
	return exitOK
}

func cmdList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N models (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: coltool list <file.col> [pattern]")
		return exitFailure
	}

	res, ok := load(ctx, fs.Arg(0))
	if !ok {
		return exitFailure
	}

	pattern := ""
	if fs.NArg() > 1 {
		pattern = strings.ToLower(fs.Arg(1))
	}

	count := 0
	for i, e := range res.Archive.Entries {
		if pattern != "" {
			name := strings.ToLower(e.Model.Name)
			matched, _ := filepath.Match(pattern, name)
			if !matched && !strings.Contains(name, pattern) {
				continue
			}
		}
		fmt.Printf("%4d  @%-8d %6d  %s\n", i, e.Offset, e.Size, e.Model)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}

	if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d models matched)\n", count)
	}
	return exitOK
}

func cmdDump(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: coltool dump <file.col> [index]")
		return exitFailure
	}

	res, ok := load(ctx, args[0])
	if !ok {
		return exitFailure
	}

	dumper := spew.NewDefaultConfig()
	dumper.DisableCapacities = true
	dumper.DisableMethods = true
	dumper.DisablePointerAddresses = true

	if len(args) < 2 {
		dumper.Dump(res.Archive)
		return exitOK
	}

	m, code := modelAt(res, args[1])
	if m == nil {
		return code
	}
	dumper.Dump(m)
	return exitOK
}

func cmdValidate(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: coltool validate <file.col>...")
		return exitFailure
	}

	cfg.Decode.Validate = true

	code := exitOK
	for _, path := range args {
		res, ok := load(ctx, path)
		if res == nil {
			code = exitFailure
			continue
		}

		for _, d := range res.Archive.Diagnostics {
			fmt.Printf("%s: %s\n", path, d)
		}
		fmt.Printf("%s: %s\n", path, res.Archive)

		switch {
		case !ok || res.Errors > 0:
			code = exitFailure
		case res.Warnings > 0 && cfg.Decode.Strict && code == exitOK:
			code = exitWarnings
		}
		if ctx.Err() != nil {
			break
		}
	}
	return code
}

func cmdExport(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "", "Output format: glb or gltf (default from config)")
	noShadow := fs.Bool("no-shadow", false, "Leave out the shadow mesh")
	noPrimitives := fs.Bool("no-primitives", false, "Leave out boxes and spheres")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: coltool export [-format glb|gltf] <file.col> <index> [output]")
		return exitFailure
	}

	opts := export.DefaultOptions()
	opts.Binary = cfg.Export.Binary
	opts.Shadow = !*noShadow
	opts.Primitives = !*noPrimitives
	switch *format {
	case "":
	case "glb":
		opts.Binary = true
	case "gltf":
		opts.Binary = false
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		return exitFailure
	}

	res, ok := load(ctx, fs.Arg(0))
	if !ok {
		return exitFailure
	}
	m, code := modelAt(res, fs.Arg(1))
	if m == nil {
		return code
	}

	output := fs.Arg(2)
	if output == "" {
		name := m.Name
		if name == "" {
			name = "model_" + fs.Arg(1)
		}
		output = name + export.Ext(opts)
	}

	if err := export.WriteFile(output, m, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Printf("Exported: %s -> %s\n", m, output)
	return exitOK
}

func cmdServe(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Parse(args)

	exportOpts := export.DefaultOptions()
	exportOpts.Binary = cfg.Export.Binary

	srv := web.NewServer(cfg.Server.Root, newLoader(), exportOpts, logger.Named("web"))
	fmt.Printf("Serving %s on http://%s\n", cfg.Server.Root, cfg.Server.Addr)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// modelAt returns the model at the index given on the command line.
func modelAt(res *loader.Result, arg string) (*col.Model, int) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid index: %s\n", arg)
		return nil, exitFailure
	}
	m := res.Archive.Model(index)
	if m == nil {
		fmt.Fprintf(os.Stderr, "Model %d not found (file has %d models)\n", index, res.Archive.Len())
		return nil, exitFailure
	}
	return m, exitOK
}
