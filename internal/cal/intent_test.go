package cal

import (
	"math"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{"plain food", "two eggs and toast", LogCommand{Description: "two eggs and toast"}},
		{"trims whitespace", "  apple \n", LogCommand{Description: "apple"}},
		{"empty", "", LogCommand{Description: ""}},

		{"delete digits", "delete 2", DeleteCommand{EntryNumber: 2}},
		{"delete word", "Delete two", DeleteCommand{EntryNumber: 2}},
		{"remove with hash", "remove #3", DeleteCommand{EntryNumber: 3}},
		{"remove entry", "REMOVE entry 12", DeleteCommand{EntryNumber: 12}},
		{"delete twenty", "delete twenty", DeleteCommand{EntryNumber: 20}},
		{"delete seventeen", "delete seventeen", DeleteCommand{EntryNumber: 17}},
		{"remove without number is food", "remove the cheese from my burger", LogCommand{Description: "remove the cheese from my burger"}},

		{"edit with colon", "edit 2: one egg not two", EditCommand{EntryNumber: 2, Instruction: "one egg not two"}},
		{"update with colon", "update 2: half a bagel", EditCommand{EntryNumber: 2, Instruction: "half a bagel"}},
		{"change word number", "change three - it was a large latte", EditCommand{EntryNumber: 3, Instruction: "it was a large latte"}},
		{"fix entry hash", "Fix entry #1, you overestimated the peanut butter", EditCommand{EntryNumber: 1, Instruction: "you overestimated the peanut butter"}},
		{"correct no separator", "correct 4 two slices not three", EditCommand{EntryNumber: 4, Instruction: "two slices not three"}},
		{"edit without instruction", "edit 5", EditCommand{EntryNumber: 5, Instruction: ""}},
		{"overflowing number", "update 99999999999999999999: x", EditCommand{EntryNumber: math.MaxInt, Instruction: "x"}},
		{"edit without number is food", "update on lunch: sandwich", LogCommand{Description: "update on lunch: sandwich"}},

		{"summary", "summary", SummaryCommand{}},
		{"today", "Today", SummaryCommand{}},
		{"total with text", "total please", SummaryCommand{}},
		{"stats", "stats", SummaryCommand{}},
		{"show", "show me", SummaryCommand{}},
		{"prefix must be a word", "totally stuffed after pasta", LogCommand{Description: "totally stuffed after pasta"}},
		{"showers is food", "shower beer", LogCommand{Description: "shower beer"}},

		{"delete wins over edit", "delete 1 edit 2: x", DeleteCommand{EntryNumber: 1}},
		{"edit wins over summary", "edit 1: today's lunch was smaller", EditCommand{EntryNumber: 1, Instruction: "today's lunch was smaller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"1", 1},
		{"07", 7},
		{"one", 1},
		{"TWELVE", 12},
		{"twenty", 20},
		{"99999999999999999999", math.MaxInt},
	}

	for _, tt := range tests {
		if got := parseNumber(tt.token); got != tt.want {
			t.Errorf("parseNumber(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}
