package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"newsverifier/internal/lifecycle"
	"newsverifier/internal/present"
	"newsverifier/internal/render"
)

// Prompt commands, typed alone on the first line of a submission.
const (
	cmdMode   = ":mode"
	cmdReport = ":report"
	cmdQuit   = ":quit"
)

// Run is the line-oriented front end: each blank-line-terminated block of
// text is one submission. It returns nil at end of input.
func (s *Service) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)
	ctrl := s.Lifecycle

	for {
		fmt.Fprintf(out, "Enter the news text to verify [%s].\n", modeLabel(s.Prefs.Get()))
		fmt.Fprintf(out, "Submit with a blank line. Commands: %s, %s <file.docx>, %s\n", cmdMode, cmdReport, cmdQuit)
		fmt.Fprint(out, "> ")

		text, err := readMultiline(r, out)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		if handled, quit := s.command(strings.TrimSpace(text), out); quit {
			return nil
		} else if handled {
			continue
		}

		if err := ctrl.Edit(text); err != nil {
			return err
		}
		st, err := ctrl.Submit(ctx)
		if err != nil && !errors.Is(err, lifecycle.ErrEmptyDraft) {
			return err
		}
		s.print(out, st)

		// A transport failure leaves the form up; the next block replaces the draft.
		if err := ctrl.VerifyAnother(); err != nil {
			s.Log.Debug("staying on input form", zap.String("phase", st.Phase().String()))
		}
	}
}

func (s *Service) command(line string, out io.Writer) (handled, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.Contains(line, "\n") {
		return false, false
	}
	switch fields[0] {
	case cmdQuit:
		return true, true
	case cmdMode:
		on, err := s.Prefs.Toggle()
		if err != nil {
			fmt.Fprintf(out, "Could not save the simulation setting: %v\n\n", err)
			return true, false
		}
		fmt.Fprintf(out, "Mode is now %s.\n\n", modeLabel(on))
		return true, false
	case cmdReport:
		if len(fields) != 2 {
			fmt.Fprintf(out, "Usage: %s <file.docx>\n\n", cmdReport)
			return true, false
		}
		if err := s.GenerateReport(fields[1]); err != nil {
			fmt.Fprintf(out, "Report failed: %v\n\n", err)
			return true, false
		}
		fmt.Fprintf(out, "Report saved to %s\n\n", fields[1])
		return true, false
	}
	return false, false
}

func (s *Service) print(out io.Writer, st lifecycle.State) {
	switch st := st.(type) {
	case lifecycle.Idle:
		if st.Notice != "" {
			fmt.Fprintf(out, "%s\n\n", st.Notice)
		}
	case lifecycle.Succeeded:
		fmt.Fprintf(out, "\nAnalyzed %d characters.\n\n", present.NewPreview(st.Text).Chars())
		fmt.Fprintln(out, render.Result(present.Build(st.Result), render.ASCII))
	case lifecycle.Failed:
		fmt.Fprintf(out, "Verification failed (status %d): %s\n\n", st.Err.Status, st.Err.Message)
	}
}

func modeLabel(simulated bool) string {
	if simulated {
		return "simulation"
	}
	return "live"
}

// ===== Input helpers =====

// readMultiline reads lines until a blank line ends a non-empty block.
// Leading blank lines re-prompt. It returns io.EOF only when input ends
// before any text was read.
func readMultiline(r *bufio.Reader, out io.Writer) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			line = strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
			if len(lines) == 0 {
				if errors.Is(err, io.EOF) {
					return "", io.EOF
				}
				return "", err
			}
			break
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			fmt.Fprint(out, "> ")
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
