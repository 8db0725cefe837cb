package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newsverifier/internal/feed"
	"newsverifier/internal/render"
)

func newFeedCmd(c *cli) *cobra.Command {
	var (
		limit    int
		verifyN  int
		markdown bool
		search   bool
		lang     string
		country  string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "feed <url | --search query...>",
		Short: "List headlines from an RSS/Atom feed and verify the first few",
		Long: `Fetches the feed, lists up to --limit headlines and sends the first
--verify of them (title plus summary) for verification, one at a time.

With --search the arguments are a Google News query instead of a feed URL,
and result links point at the publisher rather than at news.google.com.

Examples:
  newsverifier feed https://www.dailymirror.lk/rss --verify 5
  newsverifier feed https://www.dailymirror.lk/rss --keyword fuel --keyword budget
  newsverifier feed --search --country LK fuel prices`,
		Args: func(cmd *cobra.Command, args []string) error {
			if search {
				return cobra.MinimumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			var rows []render.FeedRow
			if search {
				ed := feed.NewEdition(lang, country)
				rows, err = svc.VerifySearch(cmd.Context(), strings.Join(args, " "), ed, limit, verifyN, keywords...)
			} else {
				rows, err = svc.VerifyFeed(cmd.Context(), args[0], limit, verifyN, keywords...)
			}
			if err != nil {
				return err
			}
			mode := render.ASCII
			if markdown {
				mode = render.Markdown
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Feed(rows, mode))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum headlines to list (0 for all)")
	cmd.Flags().IntVar(&verifyN, "verify", 3, "How many of the listed headlines to verify")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the table as Markdown")
	cmd.Flags().BoolVar(&search, "search", false, "Treat the arguments as a Google News search query")
	cmd.Flags().StringVar(&lang, "lang", "en", "Google News language for --search")
	cmd.Flags().StringVar(&country, "country", "US", "Google News country for --search")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Keep only headlines whose title contains one of these words (3+ characters)")
	return cmd
}
