package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkRoutingCmd = &cobra.Command{
	Use:   "check-routing [file]",
	Short: "Validate a routing file",
	Long: `Parse and validate a doctor/event/payment routing file and print a summary.

With no argument the routing_file setting is used; when that is blank the
built-in table is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("routing_file")
		if len(args) == 1 {
			path = args[0]
		}
		t, err := routing.Load(path)
		if err != nil {
			return err
		}
		if path == "" {
			path = "(built-in)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		summarize(cmd.OutOrStdout(), t)
		return nil
	},
}

func summarize(w io.Writer, t *routing.Table) {
	doctors := make([]string, 0, len(t.Doctors))
	for name := range t.Doctors {
		doctors = append(doctors, name)
	}
	sort.Strings(doctors)

	fmt.Fprintf(w, "doctors:        %d %v\n", len(doctors), doctors)
	fmt.Fprintf(w, "event doctors:  %d\n", len(t.EventDoctors))
	fmt.Fprintf(w, "cc rules:       %d\n", len(t.CCRules))
	fmt.Fprintf(w, "session links:  %d\n", len(t.SessionPaymentLinks))
	fmt.Fprintf(w, "trainings:      %d\n", len(t.Trainings))
	for _, tr := range t.Trainings {
		fmt.Fprintf(w, "  %-10s %d date links, %d sessions\n", tr.Level, len(tr.Dates), len(tr.Sessions))
	}
}
