package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"newsverifier/internal/lifecycle"
	"newsverifier/internal/present"
	"newsverifier/internal/render"
)

func newVerifyCmd(c *cli) *cobra.Command {
	var (
		fromStdin bool
		mock      bool
		live      bool
		asJSON    bool
		markdown  bool
		reportTo  string
		pageURL   string
	)

	cmd := &cobra.Command{
		Use:   "verify [text...]",
		Short: "Verify one piece of news text and print the assessment",
		Long: `Submits the text once and prints the result.

The backend follows the saved simulation preference unless --mock or --real
is given; neither flag changes the saved preference.

Examples:
  newsverifier verify "The central bank cut rates by 50 basis points"
  cat article.txt | newsverifier verify --stdin --report article.docx
  newsverifier verify --url https://news.example/story`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if fromStdin {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}

			var override *bool
			switch {
			case mock:
				override = &mock
			case live:
				f := false
				override = &f
			}

			svc, err := c.service()
			if err != nil {
				return err
			}
			var st lifecycle.State
			if pageURL != "" {
				st, err = svc.VerifyArticle(cmd.Context(), pageURL, override)
			} else {
				st, err = svc.VerifyOnce(cmd.Context(), text, override)
			}
			if err != nil && !errors.Is(err, lifecycle.ErrEmptyDraft) {
				return err
			}

			out := cmd.OutOrStdout()
			switch st := st.(type) {
			case lifecycle.Succeeded:
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(st.Result); err != nil {
						return err
					}
				} else {
					mode := render.ASCII
					if markdown {
						mode = render.Markdown
					}
					fmt.Fprint(out, render.Result(present.Build(st.Result), mode))
				}
				if reportTo != "" {
					if err := svc.GenerateReport(reportTo); err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", reportTo)
				}
				return nil
			case lifecycle.Failed:
				fmt.Fprintf(cmd.ErrOrStderr(), "Verification failed (status %d): %s\n", st.Err.Status, st.Err.Message)
			case lifecycle.Idle:
				fmt.Fprintln(cmd.ErrOrStderr(), st.Notice)
			}
			return errVerificationFailed
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the text from stdin instead of arguments")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use the simulated backend for this run")
	cmd.Flags().BoolVar(&live, "real", false, "Use the live backend for this run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the decoded result as JSON")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render tables as Markdown")
	cmd.Flags().StringVar(&reportTo, "report", "", "Also write a .docx report to this path")
	cmd.Flags().StringVar(&pageURL, "url", "", "Download this page and verify its article text")
	cmd.MarkFlagsMutuallyExclusive("mock", "real")
	cmd.MarkFlagsMutuallyExclusive("stdin", "url")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	return cmd
}
