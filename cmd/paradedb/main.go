// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Command paradedb is a developer tool for working with search index
// schemas and query inputs without a running host database: it
// validates field declaration files, stores them in a catalog, and
// dry-run compiles query inputs against them.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/lcp202406/paradedb"
	"github.com/lcp202406/paradedb/catalog"
	"github.com/lcp202406/paradedb/logger"
	"github.com/lcp202406/paradedb/query"
	"github.com/lcp202406/paradedb/schema"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rc := &cobra.Command{
		Use:           "paradedb",
		Short:         "Search index schema and query tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rc.PersistentFlags().StringVar(&logPath, "log", "", "append log output to this file instead of stderr")
	rc.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose (debug) logging")
	rc.AddCommand(newSchemaCommand())
	rc.AddCommand(newQueryCommand())
	return rc
}

var (
	logPath string
	verbose bool
)

// newLogger builds the command's logger, appending to --log when set
// and lowering the threshold to debug when --verbose is set.
func newLogger(cmd *cobra.Command) (logger.Logger, error) {
	w := cmd.ErrOrStderr()
	if logPath != "" {
		fw, err := logger.NewFileWriter(logPath)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", logPath, err)
		}
		w = fw
	}
	if verbose {
		return logger.NewVerboseLogger(w), nil
	}
	return logger.NewStandardLogger(w), nil
}

// declFile is the on-disk shape of a field declaration file, JSON or
// YAML.
type declFile struct {
	Name     string                    `json:"name"`
	KeyField string                    `json:"key_field"`
	Fields   []schema.FieldDeclaration `json:"fields"`
}

func readDeclFile(path string) (declFile, error) {
	var decl declFile
	buf, err := os.ReadFile(path)
	if err != nil {
		return decl, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		buf, err = yaml.YAMLToJSON(buf)
		if err != nil {
			return decl, fmt.Errorf("converting %s to json: %w", path, err)
		}
	}
	if err := json.Unmarshal(buf, &decl); err != nil {
		return decl, fmt.Errorf("parsing %s: %w", path, err)
	}
	return decl, nil
}

func buildSchema(decl declFile) (*schema.Schema, error) {
	keyIndex := -1
	for i, f := range decl.Fields {
		if f.Name == decl.KeyField {
			keyIndex = i
			break
		}
	}
	return schema.NewSchema(decl.Fields, keyIndex)
}

func newSchemaCommand() *cobra.Command {
	sc := &cobra.Command{
		Use:   "schema",
		Short: "Validate and store field declaration files",
	}

	check := &cobra.Command{
		Use:   "check <decl-file>",
		Short: "Build a schema from a declaration file and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decl, err := readDeclFile(args[0])
			if err != nil {
				return err
			}
			sch, err := buildSchema(decl)
			if err != nil {
				return err
			}
			for _, f := range sch.Fields {
				marker := " "
				switch {
				case f.ID == sch.KeyField().ID:
					marker = "K"
				case f.ID == sch.CtidField().ID:
					marker = "C"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %3d  %-20s %s\n", marker, f.ID, f.Name, f.Type)
			}
			return nil
		},
	}

	var catalogPath string
	save := &cobra.Command{
		Use:   "save <decl-file>",
		Short: "Build a schema and store it in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decl, err := readDeclFile(args[0])
			if err != nil {
				return err
			}
			sch, err := buildSchema(decl)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			store, err := catalog.Open(catalogPath, log)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Put(decl.Name, sch); err != nil {
				return err
			}
			entry, err := store.GetEntry(decl.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %q as %s\n", decl.Name, entry.IndexUUID)
			return nil
		},
	}
	save.Flags().StringVar(&catalogPath, "catalog", "catalog.db", "path to the catalog file")

	sc.AddCommand(check, save)
	return sc
}

func newQueryCommand() *cobra.Command {
	qc := &cobra.Command{
		Use:   "query",
		Short: "Work with query inputs",
	}

	var schemaPath string
	compile := &cobra.Command{
		Use:   "compile <query-json>",
		Short: "Compile a query input against a declaration file",
		Long: `Compile parses a query input (a JSON literal or an @file reference),
compiles it against the schema built from --schema, and prints the
resulting plan. Compilation errors are reported exactly as the host
database would surface them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(args[0])
			if strings.HasPrefix(args[0], "@") {
				var err error
				raw, err = os.ReadFile(args[0][1:])
				if err != nil {
					return err
				}
			}
			var input query.SearchQueryInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return err
			}
			decl, err := readDeclFile(schemaPath)
			if err != nil {
				return err
			}
			sch, err := buildSchema(decl)
			if err != nil {
				return err
			}
			compiled, err := paradedb.Compile(input, sch, paradedb.NewParser(sch))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeQuery(compiled))
			return nil
		},
	}
	compile.Flags().StringVar(&schemaPath, "schema", "", "field declaration file to compile against")
	_ = compile.MarkFlagRequired("schema")

	qc.AddCommand(compile)
	return qc
}
