package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"lockjs/pkg/config"
	"lockjs/pkg/driver"
	"lockjs/pkg/errors"
	"lockjs/pkg/source"
)

func main() {
	exprFlag := flag.String("e", "", "Compile the given snippet and exit")
	outputFlag := flag.String("o", "", "Output file (default: stdout)")
	checkFlag := flag.Bool("check", false, "Parse and validate only, emit nothing")
	astDumpFlag := flag.Bool("ast", false, "Dump the desugared AST as JSON and exit")
	configFlag := flag.String("config", config.DefaultFile, "Config file path")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	noColorFlag := flag.Bool("no-color", false, "Disable colored diagnostics")

	flag.Parse()

	cfg, err := config.LoadIfPresent(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lockjs: %v\n", err)
		os.Exit(78) // Exit code 78: configuration error
	}
	if *outputFlag != "" {
		cfg.Output = *outputFlag
	}
	if *noColorFlag {
		color.NoColor = true
	} else if cfg.Color != nil {
		color.NoColor = !*cfg.Color
	}

	log := newLogger(cfg.LogLevel, *verboseFlag)
	drv := driver.New(log)

	var res *driver.Result
	switch {
	case *exprFlag != "":
		res = drv.CompileSource("<eval>", *exprFlag)
	case flag.NArg() == 1:
		res, err = drv.CompileFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "lockjs: %v\n", err)
			os.Exit(66) // Exit code 66: cannot open input
		}
	case flag.NArg() == 0:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lockjs: reading stdin: %v\n", err)
			os.Exit(66)
		}
		res = drv.Compile(source.NewStdinSource(string(data)))
	default:
		fmt.Fprintf(os.Stderr, "Usage: lockjs [options] <input.js> or lockjs -e \"snippet\"\n")
		os.Exit(64) // Exit code 64: command line usage error
	}

	if len(res.Errors) > 0 {
		errors.DisplayErrors(os.Stderr, res.Source.Content, res.Errors)
		os.Exit(1)
	}

	if *astDumpFlag {
		dumpAST(res)
		return
	}
	if *checkFlag {
		log.Info().Str("source", res.Source.DisplayPath()).Msg("ok")
		return
	}

	if cfg.Output == "" {
		fmt.Print(res.Output)
		return
	}
	if err := os.WriteFile(cfg.Output, []byte(res.Output), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "lockjs: %v\n", err)
		os.Exit(73) // Exit code 73: cannot create output
	}
	log.Info().Str("output", cfg.Output).Int("bytes", len(res.Output)).Msg("wrote")
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// dumpAST prints the desugared AST, the tree the emitter prints from. Node
// structs marshal by their exported fields, which is enough for eyeballing
// tree shape.
func dumpAST(res *driver.Result) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Lowered); err != nil {
		fmt.Fprintf(os.Stderr, "lockjs: encoding AST: %v\n", err)
		os.Exit(70) // Exit code 70: internal software error
	}
}
