package cal

import (
	"fmt"
	"strconv"
	"strings"
)

// Date and time layouts written to the backing log.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "03:04 PM"
)

// Item is one food in a calorie breakdown.
type Item struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// LogEntry is one logged food event for a day.
type LogEntry struct {
	Number      int // 1-based position within the day, derived on read
	Date        string
	Time        string
	Description string
	Items       string // display string, see FormatItems
	Calories    int
	DailyTotal  int
}

// FormatItems renders items as the display string stored in the items
// column: "Eggs (140), Toast (120)".
func FormatItems(items []Item) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s (%d)", item.Name, item.Calories)
	}
	return strings.Join(parts, ", ")
}

// SumItems returns the total calories of items.
func SumItems(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Calories
	}
	return total
}

// parseCalories reads an integer cell. ok is false for blank or non-numeric
// values, which callers count as zero.
func parseCalories(cell string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return 0, false
	}
	return n, true
}

// newRow builds a full backing log row.
func newRow(date, clock, description string, items []Item, calories, dailyTotal int) Row {
	row := make(Row, NumColumns)
	row[ColDate] = date
	row[ColTime] = clock
	row[ColDescription] = description
	row[ColItems] = FormatItems(items)
	row[ColCalories] = strconv.Itoa(calories)
	row[ColDailyTotal] = strconv.Itoa(dailyTotal)
	return row
}
