package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"movequote/catalog"
	"movequote/services"
)

// newQuoteCmd builds the offline "quote" command.
func newQuoteCmd(cat *catalog.Catalog, loc *time.Location) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Work with saved quote files offline",
	}
	cmd.AddCommand(newQuoteCalcCmd(cat, loc))
	return cmd
}

func newQuoteCalcCmd(cat *catalog.Catalog, loc *time.Location) *cobra.Command {
	var summary bool
	var excelOut string

	cmd := &cobra.Command{
		Use:   "calc <file.json>",
		Short: "Price a saved quote and print its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read quote: %w", err)
			}

			now := time.Now().In(loc)
			s, failures, err := services.DecodeState(cat, data, now)
			if err != nil {
				return err
			}
			res := services.Recompute(cat, s, s)

			out := cmd.OutOrStdout()
			for _, f := range failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", f)
			}
			printQuote(out, cat, res, summary)

			if excelOut != "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), ".json")
				export := services.BuildQuoteExport(cat, res, base, now)
				xlsx, err := services.GenerateQuoteExcel(export)
				if err != nil {
					return err
				}
				if err := os.WriteFile(excelOut, xlsx, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", excelOut, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "also print the dispatch summary")
	cmd.Flags().StringVar(&excelOut, "excel", "", "write the spreadsheet to this path")
	return cmd
}

func printQuote(w io.Writer, cat *catalog.Catalog, res services.Result, summary bool) {
	s := res.State
	fmt.Fprintf(w, "부피 %s  무게 %s\n", services.FormatVolume(s.TotalVolume), services.FormatWeight(s.TotalWeight))
	fmt.Fprintf(w, "추천 차량 %s  적용 차량 %s\n", orDash(res.Recommendation.Vehicle), orDash(s.FinalVehicle))
	for _, item := range res.Quote.Items {
		fmt.Fprintf(w, "%-20s %14s  %s\n", item.Label, services.FormatKRW(item.Amount), item.Note)
	}
	fmt.Fprintf(w, "%-20s %14s\n", "총 견적 비용", services.FormatKRW(res.Quote.Total))
	fmt.Fprintf(w, "%-20s %14s\n", "계약금", services.FormatKRW(s.Deposit))
	fmt.Fprintf(w, "%-20s %14s\n", "잔금", services.FormatKRW(res.Quote.Remaining(s.Deposit)))

	if summary {
		fmt.Fprintln(w)
		for _, line := range services.DispatchSummary(cat, res) {
			fmt.Fprintln(w, line)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
