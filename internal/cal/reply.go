package cal

import (
	"fmt"
	"strings"
)

const (
	logUsage     = "Tell me what you ate, e.g. \"two eggs and toast\"."
	editUsage    = "Tell me what to change, e.g. \"edit %d: one egg not two\"."
	noEntriesMsg = "No entries logged today."
)

func writeItems(b *strings.Builder, items []Item) {
	for _, item := range items {
		fmt.Fprintf(b, "  • %s: %d cal\n", item.Name, item.Calories)
	}
}

func writeTotals(b *strings.Builder, dailyTotal, target int) {
	fmt.Fprintf(b, "Daily total: %d / %d\n", dailyTotal, target)
	if remaining := target - dailyTotal; remaining >= 0 {
		fmt.Fprintf(b, "Remaining: %d", remaining)
	} else {
		fmt.Fprintf(b, "Over by: %d", -remaining)
	}
}

func formatLogged(number int, est *Estimate, dailyTotal, target int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Logged #%d: %d cal\n", number, est.TotalCalories)
	writeItems(&b, est.Items)
	b.WriteString("\n")
	writeTotals(&b, dailyTotal, target)
	return b.String()
}

func formatUpdated(number int, corr *Correction, dailyTotal, target int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated #%d: %d cal\n", number, corr.TotalCalories)
	fmt.Fprintf(&b, "%s\n", corr.CorrectedDescription)
	writeItems(&b, corr.Items)
	b.WriteString("\n")
	writeTotals(&b, dailyTotal, target)
	return b.String()
}

func formatDeleted(number, dailyTotal, target int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deleted entry #%d.\n\n", number)
	writeTotals(&b, dailyTotal, target)
	return b.String()
}

func formatSummary(entries []*LogEntry, target int) string {
	if len(entries) == 0 {
		return noEntriesMsg
	}

	var b strings.Builder
	noun := "entries"
	if len(entries) == 1 {
		noun = "entry"
	}
	fmt.Fprintf(&b, "Today (%d %s):\n", len(entries), noun)

	total := 0
	for _, e := range entries {
		total += e.Calories
		fmt.Fprintf(&b, "%d. %s %s (%d cal)\n", e.Number, e.Time, e.Description, e.Calories)
	}
	b.WriteString("\n")
	writeTotals(&b, total, target)
	return b.String()
}
