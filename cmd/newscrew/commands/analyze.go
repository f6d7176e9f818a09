package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go-newscrew/internal/app"
	"go-newscrew/internal/crew"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url]",
		Short: "Fetch, categorize and summarize one article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var url string
			if len(args) == 1 {
				url = strings.TrimSpace(args[0])
			} else {
				u, err := promptURL(cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
				url = u
			}

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			printAnalysis(out, a.Crew.Run(cmd.Context(), url, progress(out)))
			return nil
		},
	}
	return cmd
}

// promptURL asks for the article URL on w and reads one line from r.
func promptURL(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter the news article URL: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", errors.New("no URL given")
	}
	return url, nil
}

func progress(w io.Writer) crew.Observer {
	return func(stage crew.Stage, a *crew.Analysis) {
		switch stage {
		case crew.StageCategorizing:
			fmt.Fprintln(w, "Fetching Category...")
		case crew.StageSummarizing:
			fmt.Fprintln(w, "Generating Summary...")
		}
	}
}

// printAnalysis writes the report block, or just the fetch error when the
// model stages were skipped.
func printAnalysis(w io.Writer, a *crew.Analysis) {
	if a.Skipped {
		fmt.Fprintln(w, a.Result())
		return
	}
	fmt.Fprintln(w, "\n--- Article Analysis ---")
	fmt.Fprintf(w, "\n📌 Title: %s\n", a.Title)
	fmt.Fprintf(w, "\n📂 Category: %s\n", a.Category)
	fmt.Fprintf(w, "\n📝 Summary:\n%s\n", a.Summary)
}
