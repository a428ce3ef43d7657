package driver

import (
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"lockjs/pkg/errors"
	"lockjs/pkg/parser"
	"lockjs/pkg/source"
	"lockjs/pkg/transform"
)

// Driver runs the full pipeline: lex, parse, classify, desugar, emit. It is
// the single entry point the CLI and embedding callers use.
type Driver struct {
	log zerolog.Logger
}

// New creates a driver logging through the given logger.
func New(log zerolog.Logger) *Driver {
	return &Driver{log: log}
}

// Result holds everything one compilation produced. When Errors is non-empty
// no Output is produced; a program with any diagnostic, structural or
// syntactic, never emits code.
type Result struct {
	Source   *source.SourceFile
	Program  *parser.Program // extended AST, present once parsing succeeds
	Lowered  *parser.Program // desugared base AST, nil on any diagnostic
	Output   string          // generated JavaScript, empty on any diagnostic
	Errors   []errors.SourceError
	Sigiled  int // number of sigiled nodes the classifier found
}

// Err folds the diagnostics into a single error, or nil if the compilation
// succeeded.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range r.Errors {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// CompileSource compiles an in-memory snippet under the given display name.
func (d *Driver) CompileSource(name, src string) *Result {
	return d.compile(source.NewSourceFile(name, "", src))
}

// CompileFile reads and compiles path.
func (d *Driver) CompileFile(path string) (*Result, error) {
	sf, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.compile(sf), nil
}

// Compile compiles an already-loaded source file.
func (d *Driver) Compile(sf *source.SourceFile) *Result {
	return d.compile(sf)
}

func (d *Driver) compile(sf *source.SourceFile) *Result {
	res := &Result{Source: sf}

	prog, parseErrs := parser.Parse(sf)
	if len(parseErrs) > 0 {
		d.log.Debug().
			Str("source", sf.DisplayPath()).
			Int("errors", len(parseErrs)).
			Msg("parse failed")
		res.Errors = parseErrs
		return res
	}
	res.Program = prog

	class := transform.Classify(prog)
	res.Sigiled = class.Len()
	d.log.Debug().
		Str("source", sf.DisplayPath()).
		Int("sigiled_nodes", class.Len()).
		Msg("classified")

	lowered, transformErrs := transform.Desugar(prog, class, sf)
	if len(transformErrs) > 0 {
		d.log.Debug().
			Str("source", sf.DisplayPath()).
			Int("errors", len(transformErrs)).
			Msg("desugaring failed")
		res.Errors = transformErrs
		return res
	}
	res.Lowered = lowered
	res.Output = parser.EmitProgram(lowered)

	d.log.Debug().
		Str("source", sf.DisplayPath()).
		Int("output_bytes", len(res.Output)).
		Msg("compiled")
	return res
}
