package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"calcform/internal/calculation"
	"calcform/internal/config"
	"calcform/internal/store"
)

func newHistoryCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		operator string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored calculations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.Filter{Limit: limit}
			if operator != "" {
				op := calculation.Operator(operator)
				if !op.Valid() {
					return fmt.Errorf("unknown operator %q (want one of + - * /)", operator)
				}
				f.Operator = op
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			repo, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := repo.List(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "no calculations")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCALCULATION\tCREATED")
			for _, c := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c, c.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&operator, "operator", "", "only show calculations using this operator")
	cmd.Flags().IntVar(&limit, "limit", store.RecentLimit, "maximum number of calculations to show")

	return cmd
}
