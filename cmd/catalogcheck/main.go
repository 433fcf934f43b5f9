// SPDX-License-Identifier: MIT

// catalogcheck is a CLI tool to inspect and validate error catalog files.
// The built-in defaults are folded first, then every --file in order, so
// later files override earlier ones.
//
// Usage:
//
//	catalogcheck -f errors.yaml
//	catalogcheck -f base.yaml -f overrides.toml --json
//
// Exit codes:
//   - 0: Catalog is valid
//   - 1: Catalog is invalid (load error or missing reserved key)
//   - 2: Usage error
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/magiavventure/go-common/pkg/catalog"
)

var Version = "dev"

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(stderr, ee.msg)
		return ee.code
	}
	// flag parsing and argument errors
	fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
	return 2
}

func newRootCmd() *cobra.Command {
	var (
		files      []string
		noDefaults bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:           "catalogcheck",
		Short:         "Fold error catalog files and check the reserved keys",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(files) == 0 && noDefaults {
				return &exitError{code: 2, msg: "Error: nothing to check, pass --file or drop --no-defaults"}
			}
			return check(cmd.OutOrStdout(), files, noDefaults, asJSON)
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "catalog file (YAML or TOML); repeat to fold several")
	cmd.Flags().BoolVar(&noDefaults, "no-defaults", false, "do not fold the built-in default entries first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the merged catalog as JSON")
	return cmd
}

func check(out io.Writer, files []string, noDefaults, asJSON bool) error {
	var sources []catalog.Source
	if !noDefaults {
		sources = append(sources, catalog.Defaults())
	}
	loaded, err := catalog.LoadAll(files...)
	if err != nil {
		return &exitError{code: 1, msg: fmt.Sprintf("Catalog error:\n  %v", err)}
	}
	sources = append(sources, loaded...)

	cat := catalog.Build(sources...)
	if err := printCatalog(out, cat, asJSON); err != nil {
		return &exitError{code: 1, msg: fmt.Sprintf("Output error: %v", err)}
	}

	if err := cat.Validate(); err != nil {
		return &exitError{code: 1, msg: "Validation error:\n  " + strings.ReplaceAll(err.Error(), "\n", "\n  ")}
	}

	if !asJSON {
		fmt.Fprintf(out, "✓ catalog is valid (%d entries from %s)\n", cat.Len(), strings.Join(cat.Sources(), ", "))
	}
	return nil
}

func printCatalog(w io.Writer, cat *catalog.Catalog, asJSON bool) error {
	entries := make([]catalog.Entry, 0, cat.Len())
	for _, key := range cat.Keys() {
		e, _ := cat.Lookup(key)
		entries = append(entries, e)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCODE\tSTATUS\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Key, e.Code, e.Status, e.Message)
	}
	return tw.Flush()
}
