package cal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Command is the parsed intent of an inbound message.
type Command interface {
	command()
}

// LogCommand logs Description as a new entry.
type LogCommand struct {
	Description string
}

// EditCommand corrects entry EntryNumber using Instruction.
type EditCommand struct {
	EntryNumber int
	Instruction string
}

// DeleteCommand removes entry EntryNumber.
type DeleteCommand struct {
	EntryNumber int
}

// SummaryCommand lists today's entries.
type SummaryCommand struct{}

func (LogCommand) command()     {}
func (EditCommand) command()    {}
func (DeleteCommand) command()  {}
func (SummaryCommand) command() {}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

const (
	numberToken = `(\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)`
	entryPrefix = `(?:entry\s*|number\s*|no\.\s*)?#?\s*`
)

// Checked in this order. "update 2: ..." has to hit the edit pattern before
// anything can treat it as food.
var (
	deletePattern  = regexp.MustCompile(`(?is)^(?:delete|remove)\s+` + entryPrefix + numberToken + `\b`)
	editPattern    = regexp.MustCompile(`(?is)^(?:edit|update|change|fix|correct)\s+` + entryPrefix + numberToken + `\b\s*[:,\-]?\s*(.*)$`)
	summaryPattern = regexp.MustCompile(`(?i)^(?:summary|today|total|stats|show)\b`)
)

// Classify maps message text to a Command. It never fails: anything that is
// not a recognised delete, edit or summary is logged as food.
func Classify(text string) Command {
	text = strings.TrimSpace(text)

	if m := deletePattern.FindStringSubmatch(text); m != nil {
		return DeleteCommand{EntryNumber: parseNumber(m[1])}
	}
	if m := editPattern.FindStringSubmatch(text); m != nil {
		return EditCommand{EntryNumber: parseNumber(m[1]), Instruction: strings.TrimSpace(m[2])}
	}
	if summaryPattern.MatchString(text) {
		return SummaryCommand{}
	}
	return LogCommand{Description: text}
}

func parseNumber(token string) int {
	if n, ok := numberWords[strings.ToLower(token)]; ok {
		return n
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		// Digits only fail to parse when they overflow int. MaxInt is still
		// out of range, so the command resolves to not-found.
		return math.MaxInt
	}
	return n
}
