// Command trecsearch builds and queries a disk-resident inverted
// index over TREC-style document collections.
package main

import (
	"errors"
	"fmt"
	"os"
)

// argError marks a bad-arguments failure (missing/invalid flag) as
// distinct from a runtime error, so main can map it to exit code 2
// instead of 1.
type argError struct{ err error }

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func argErrorf(format string, args ...interface{}) error {
	return &argError{err: fmt.Errorf(format, args...)}
}

func main() {
	root := buildRootCmd()
	root.SilenceErrors = true
	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trecsearch:", err)

		var ae *argError
		if errors.As(err, &ae) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
