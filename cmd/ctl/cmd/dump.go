package cmd

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/jpfielding/dcmcodec/pkg/dicom"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
	"github.com/spf13/cobra"
)

// NewDumpCmd prints the data elements of a DICOM file
func NewDumpCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "print DICOM data elements",
		Long:  "print the meta group and dataset of a DICOM file as text or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, _ := cmd.Flags().GetString("uri")
			verbose, _ := cmd.Flags().GetBool("verbose")
			in, err := open(ctx, uri, verbose)
			if err != nil {
				return err
			}
			defer in.Close()

			opts, err := readOptions(cmd)
			if err != nil {
				return err
			}
			f, err := dicom.Read(in, opts)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", uri, err)
			}
			slog.DebugContext(ctx, "read", "uri", uri, "syntax", transfer.Syntax(f.TransferSyntax()).Name(), "elements", len(f.Dataset))

			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				fmt.Fprint(out, f.Meta)
				fmt.Fprint(out, f.Dataset)
			default:
				j, err := json.Marshal(map[string]dicom.Dict{"meta": f.Meta, "dataset": f.Dataset})
				if err != nil {
					return err
				}
				out.Write(j)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("uri", "u", "", "DICOM file path, http(s) URL or - for stdin")
	pf.StringP("format", "f", "json", "output format (text|json)")
	pf.BoolP("verbose", "v", false, "dump http request and response headers")
	addReadFlags(cmd)
	return cmd
}

// open returns the content behind a file path, http(s) URL or - for stdin
func open(ctx context.Context, uri string, verbose bool) (io.ReadCloser, error) {
	uri = strings.TrimPrefix(uri, "file://")
	switch {
	case uri == "":
		return nil, fmt.Errorf("a uri is required")
	case uri == "-":
		return io.NopCloser(os.Stdin), nil
	case strings.HasPrefix(uri, "http"):
		// TODO make certificate verification a flag
		cl := &http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %v", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download: %v", err)
		}
		if verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			os.Stderr.Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			os.Stderr.Write(resDump)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to download: %s", resp.Status)
		}
		return resp.Body, nil
	default:
		f, err := os.Open(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %v", err)
		}
		return f, nil
	}
}

func addReadFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.Bool("ignore-errors", false, "keep reading past recoverable errors")
	pf.String("until", "", "stop reading at this tag (GGGGEEEE)")
	pf.Bool("include-until", false, "include the element at --until")
}

func readOptions(cmd *cobra.Command) (dicom.ReadOptions, error) {
	ignore, _ := cmd.Flags().GetBool("ignore-errors")
	until, _ := cmd.Flags().GetString("until")
	include, _ := cmd.Flags().GetBool("include-until")
	opts := dicom.ReadOptions{
		IgnoreErrors:         ignore,
		IncludeUntilTagValue: include,
		Logger:               slog.Default(),
	}
	if until != "" {
		t, err := tag.Parse(until)
		if err != nil {
			return opts, fmt.Errorf("bad --until: %w", err)
		}
		opts.UntilTag = &t
	}
	return opts, nil
}
