package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/trucklot/backend/internal/domain/calendar"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// row writes tab separated cells as one table line.
func row(w io.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// addAsOfFlag registers --as-of on cmd.
func addAsOfFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "as-of", "", "bill as of this date, YYYY-MM-DD (default: today)")
}

// parseAsOf returns today for an empty value.
func parseAsOf(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return calendar.Today(), nil
	}
	t, ok := calendar.ParseYMD(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: use YYYY-MM-DD", raw)
	}
	return t, nil
}

// parseID reads a positive integer argument.
func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}
