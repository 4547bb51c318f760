package main

import (
	"encoding/json"
	"fmt"

	"github.com/goforj/godump"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <file.tsk>",
	Short: "Print the parsed task model",
	Long: `Parse a task file and print the decoded model. The default dump shows
every field with its Go type; json and yaml give machine readable output.

Examples:
  tskmap parse lasham-300.tsk
  tskmap parse --format yaml lasham-300.tsk`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "dump", "output format (dump, json, yaml)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	switch parseFormat {
	case "dump", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (expected dump, json or yaml)", parseFormat)
	}

	t, err := readTask(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch parseFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	default:
		godump.Fdump(out, t)
		return nil
	}
}
