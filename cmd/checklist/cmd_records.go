package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"checklist/internal/client"

	"github.com/spf13/cobra"
)

// questionsCmd prints the steps of a process
var questionsCmd = &cobra.Command{
	Use:   "questions <process>",
	Short: "List the steps of onboarding or offboarding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd.Context())
		defer cancel()

		steps, err := newClient().Questions(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, s := range steps {
			fmt.Fprintf(out, "%d. [%s] %s\n", i+1, s.Kind, s.Prompt)
			if s.ReferenceURL != "" {
				fmt.Fprintf(out, "   %s\n", s.ReferenceURL)
			}
		}
		return nil
	},
}

var responsesJSON bool

// responsesCmd dumps the archive
var responsesCmd = &cobra.Command{
	Use:   "responses",
	Short: "List every stored response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd.Context())
		defer cancel()

		records, err := newClient().ListResponses(ctx)
		if err != nil {
			return err
		}

		if responsesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPROCESS\tQUESTION\tRESPONSE\tFILE\tTIMESTAMP")
		for _, r := range records {
			file := "-"
			if r.FilePath != nil {
				file = *r.FilePath
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Process, r.Question, r.Response, file, r.Timestamp.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

var downloadOutput string

// downloadCmd fetches a stored upload
var downloadCmd = &cobra.Command{
	Use:   "download <fileName>",
	Short: "Download a stored acknowledgment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd.Context())
		defer cancel()

		target := downloadOutput
		if target == "" {
			target = args[0]
		}
		f, err := os.Create(target)
		if err != nil {
			return err
		}

		n, err := newClient().Download(ctx, args[0], f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(target)
			if errors.Is(err, client.ErrNotFound) {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", target, n)
		return nil
	},
}

func init() {
	responsesCmd.Flags().BoolVar(&responsesJSON, "json", false, "Print raw JSON")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Write to this path instead of the file name")
}
