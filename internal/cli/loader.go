package cli

import (
	"errors"

	"github.com/roach88/megac/internal/compiler"
)

// LoadedModel is a compiled model with its rule violations and ownership
// warnings.
type LoadedModel struct {
	*compiler.LoadResult
	Violations []compiler.ValidationError
	Warnings   []compiler.CycleWarning
}

// LoadModel loads the CUE package in dir, compiles it and checks it.
// Violations do not make the load fail; callers decide what to do with
// them.
func LoadModel(dir string) (*LoadedModel, error) {
	res, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return &LoadedModel{
		LoadResult: res,
		Violations: compiler.Validate(res.Model),
		Warnings:   compiler.AnalyzeOwnership(res.Model),
	}, nil
}

// loadErrorParts splits a load error into its code and message.
func loadErrorParts(err error) (string, string) {
	var le *compiler.LoadError
	if errors.As(err, &le) {
		return le.Code, le.Error()
	}
	return ErrCodeGeneric, err.Error()
}

// loadForCommand loads a model and reports load errors and rule violations
// as command errors. Ownership cycles are logged as warnings.
func loadForCommand(opts *RootOptions, f *OutputFormatter, dir string) (*LoadedModel, error) {
	loaded, err := LoadModel(dir)
	if err != nil {
		code, msg := loadErrorParts(err)
		return nil, commandError(f, code, msg, nil)
	}
	f.VerboseLog("Loaded %d CUE file(s) from %s", len(loaded.Files), dir)

	for _, w := range loaded.Warnings {
		opts.logger().Warn("ownership cycle", "code", w.Code, "path", w.Path, "message", w.Message)
	}
	if len(loaded.Violations) > 0 {
		return nil, outputViolations(f, loaded.Violations)
	}
	return loaded, nil
}
