package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/soaring-tools/tskmap/pkg/task"
	"github.com/spf13/cobra"
)

var (
	fmtCompact bool
	fmtOutput  string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file.tsk>",
	Short: "Re-serialize a task file",
	Long: `Parse a task file and write it back in canonical form: attributes in a
fixed order, booleans as 0/1 and numbers in their shortest form.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCompact, "compact", false, "write without indentation")
	fmtCmd.Flags().StringVarP(&fmtOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	t, err := readTask(args[0])
	if err != nil {
		return err
	}

	var data []byte
	if fmtCompact {
		data, err = task.Marshal(t)
	} else {
		data, err = task.MarshalIndent(t)
	}
	if err != nil {
		return err
	}

	if fmtOutput == "" {
		return writeTask(cmd.OutOrStdout(), data)
	}

	f, err := os.Create(fmtOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeTask(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTask(w io.Writer, data []byte) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
