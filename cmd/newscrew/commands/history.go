package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go-newscrew/internal/app"
	"go-newscrew/internal/history"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently stored analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, rdb, err := app.OpenStores(cfg, log)
			if err != nil {
				return err
			}
			if rdb != nil {
				defer rdb.Close()
			}
			if !store.Enabled() {
				return errors.New("history is disabled: set database.dsn in the config")
			}
			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of analyses to show")
	return cmd
}

func printHistory(w io.Writer, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No analyses stored yet.")
		return
	}
	for i := range records {
		fmt.Fprintln(w, records[i].Headline())
	}
}
