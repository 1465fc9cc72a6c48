package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jpfielding/dcmcodec/pkg/dicom"
	"github.com/spf13/cobra"
)

// NewRoundTripCmd reads a file, writes it back in memory and compares the bytes
func NewRoundTripCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip <file>",
		Short: "check that a file is written back byte for byte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ignore, _ := cmd.Flags().GetBool("ignore-errors")
			f, err := dicom.ReadBuffer(data, dicom.ReadOptions{IgnoreErrors: ignore, Logger: slog.Default()})
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if _, err := f.Write(&buf, dicom.WriteOptions{}); err != nil {
				return err
			}
			at := firstDifference(data, buf.Bytes())
			if at < 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: identical (%d bytes)\n", args[0], len(data))
				return nil
			}
			slog.WarnContext(ctx, "round trip differs", "file", args[0], "offset", at, "read", len(data), "written", buf.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: differs at offset %d (read %d bytes, wrote %d)\n", args[0], at, len(data), buf.Len())
			return nil
		},
	}
	cmd.Flags().Bool("ignore-errors", false, "keep reading past recoverable errors")
	return cmd
}

// firstDifference returns the first offset where a and b differ, or -1
func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
