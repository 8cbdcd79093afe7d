package dev

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apexframe/apex/pkg/codegen"
	"github.com/apexframe/apex/pkg/template"
)

// CheckError is a compile failure for one template file.
type CheckError struct {
	Path string
	Err  error
}

func (e CheckError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// CompileAll compiles every template file with the given extension under
// dirs. It returns the compiled programs keyed by file path, along with
// any per-file failures. A directory that does not exist is skipped.
func CompileAll(dirs []string, ext string) (map[string]*codegen.Program, []CheckError) {
	programs := make(map[string]*codegen.Program)
	var errs []CheckError

	for _, dir := range dirs {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(path, ext) {
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, CheckError{Path: path, Err: err})
				return nil
			}
			tmpl, err := template.Parse(string(src))
			if err != nil {
				errs = append(errs, CheckError{Path: path, Err: err})
				return nil
			}
			programs[path] = codegen.Compile(tmpl)
			return nil
		})
	}

	return programs, errs
}

// Check compile-checks every template under dirs and returns the failures.
func Check(dirs []string, ext string) []CheckError {
	_, errs := CompileAll(dirs, ext)
	return errs
}
