package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/itsatony/go-pypage"
	"gopkg.in/yaml.v3"
)

// readSource reads the whole source file. A missing file is reported with
// ExitCodeInputError.
func readSource(path string, stderr io.Writer) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		errorColor.Fprintf(stderr, ErrMsgFileNotFound+"\n", path)
		return nil, &exitError{code: ExitCodeInputError}
	}
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return nil, &exitError{code: ExitCodeInputError}
	}
	return data, nil
}

// parseStored loads the named template from a filesystem store rooted at
// opts.rootDir and parses it. Unknown names are reported like missing files.
func parseStored(engine *pypage.Engine, opts *renderOptions, stderr io.Writer) (*pypage.Template, error) {
	store, err := pypage.OpenStore(pypage.StoreDriverNameFilesystem, opts.rootDir)
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStoreFailed, err)
		return nil, &exitError{code: ExitCodeInputError}
	}

	se, err := pypage.NewStorageEngine(pypage.StorageEngineConfig{Store: store, Engine: engine})
	if err != nil {
		errorColor.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStoreFailed, err)
		return nil, &exitError{code: ExitCodeInputError}
	}
	defer se.Close()

	tmpl, err := se.Parse(context.Background(), opts.sourcePath)
	if errors.Is(err, pypage.ErrTemplateNotFound) {
		errorColor.Fprintf(stderr, ErrMsgFileNotFound+"\n", opts.sourcePath)
		return nil, &exitError{code: ExitCodeInputError}
	}
	if err != nil {
		return nil, reportParseError(err, stderr)
	}
	return tmpl, nil
}

// loadEnv reads initial variable bindings from a YAML mapping.
// An empty path yields no bindings.
func loadEnv(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var env map[string]any
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultTarget {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}
