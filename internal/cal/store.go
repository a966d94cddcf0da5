package cal

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// EntryStore maintains today's entries on top of a RowLog.
//
// It keeps no state between calls. Every operation re-reads the whole log,
// derives entry numbers from row position, and writes back. Two races follow
// from that and are accepted for single-user use:
//
//   - two concurrent Appends can observe the same count, hand out the same
//     entry number, and leave a wrong daily total on whichever row lands last;
//   - an Update or Delete interleaved with an Append can recalculate against
//     a stale row count.
//
// Fixing either needs a serialization point outside the store (a single
// writer queue or a per-day lock).
type EntryStore struct {
	rows   RowLog
	clock  Clock
	loc    *time.Location
	logger Logger
}

// NewEntryStore creates an EntryStore. loc decides which calendar day is
// "today"; nil means UTC.
func NewEntryStore(rows RowLog, clock Clock, loc *time.Location, logger Logger) *EntryStore {
	if loc == nil {
		loc = time.UTC
	}
	return &EntryStore{
		rows:   rows,
		clock:  clock,
		loc:    loc,
		logger: logger,
	}
}

// dayRow is a row of the requested day together with its physical position.
type dayRow struct {
	index int
	row   Row
}

func (s *EntryStore) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// listDay returns the rows dated date, in physical order.
func (s *EntryStore) listDay(ctx context.Context, date string) ([]dayRow, error) {
	rows, err := s.rows.ListRows(ctx)
	if err != nil {
		return nil, unavailable("listing rows", err)
	}

	var day []dayRow
	for i, row := range rows {
		if strings.TrimSpace(row.Cell(ColDate)) == date {
			day = append(day, dayRow{index: i, row: row})
		}
	}
	return day, nil
}

// calories returns the calorie cell of r. Malformed cells count as zero.
func (s *EntryStore) calories(r dayRow) int {
	n, ok := parseCalories(r.row.Cell(ColCalories))
	if !ok {
		s.logger.Warn("malformed row", "row", r.index, "calories", r.row.Cell(ColCalories))
	}
	return n
}

// resolve maps a 1-based entry number to today's row.
func resolve(day []dayRow, number int) (dayRow, error) {
	if number < 1 || number > len(day) {
		return dayRow{}, &EntryNotFoundError{Requested: number, Available: len(day)}
	}
	return day[number-1], nil
}

func (s *EntryStore) toEntry(number int, r dayRow) *LogEntry {
	total, _ := parseCalories(r.row.Cell(ColDailyTotal))
	return &LogEntry{
		Number:      number,
		Date:        r.row.Cell(ColDate),
		Time:        r.row.Cell(ColTime),
		Description: r.row.Cell(ColDescription),
		Items:       r.row.Cell(ColItems),
		Calories:    s.calories(r),
		DailyTotal:  total,
	}
}

// ListToday returns today's entries in chronological order, numbered 1..K.
func (s *EntryStore) ListToday(ctx context.Context) ([]*LogEntry, error) {
	day, err := s.listDay(ctx, s.now().Format(DateLayout))
	if err != nil {
		return nil, err
	}

	entries := make([]*LogEntry, len(day))
	for i, r := range day {
		entries[i] = s.toEntry(i+1, r)
	}
	return entries, nil
}

// Entry returns today's entry with the given number.
func (s *EntryStore) Entry(ctx context.Context, number int) (*LogEntry, error) {
	day, err := s.listDay(ctx, s.now().Format(DateLayout))
	if err != nil {
		return nil, err
	}
	r, err := resolve(day, number)
	if err != nil {
		return nil, err
	}
	return s.toEntry(number, r), nil
}

// Append logs a new entry for today and returns its entry number and the
// daily total including it. The number is today's count plus one; there is
// no counter.
func (s *EntryStore) Append(ctx context.Context, description string, items []Item, total int) (int, int, error) {
	now := s.now()
	date := now.Format(DateLayout)

	day, err := s.listDay(ctx, date)
	if err != nil {
		return 0, 0, err
	}

	prior := 0
	for _, r := range day {
		prior += s.calories(r)
	}
	dailyTotal := prior + total

	row := newRow(date, now.Format(TimeLayout), description, items, total, dailyTotal)
	if err := s.rows.AppendRow(ctx, row); err != nil {
		return 0, 0, unavailable("appending row", err)
	}

	number := len(day) + 1
	s.logger.Info("entry logged", "entry", number, "calories", total, "daily_total", dailyTotal)
	return number, dailyTotal, nil
}

// Update replaces the description, items and calories of today's entry
// number and returns the recalculated daily total. The time column and the
// entry's position are left alone.
func (s *EntryStore) Update(ctx context.Context, number int, description string, items []Item, total int) (int, error) {
	date := s.now().Format(DateLayout)

	day, err := s.listDay(ctx, date)
	if err != nil {
		return 0, err
	}
	target, err := resolve(day, number)
	if err != nil {
		return 0, err
	}

	cells := []struct {
		col   Column
		value string
	}{
		{ColDescription, description},
		{ColItems, FormatItems(items)},
		{ColCalories, strconv.Itoa(total)},
	}
	for _, c := range cells {
		if err := s.rows.UpdateCell(ctx, target.index, c.col, c.value); err != nil {
			return 0, unavailable("updating row", err)
		}
	}

	s.logger.Info("entry updated", "entry", number, "calories", total)

	// A changed entry shifts the running total of every later entry.
	return s.recalculate(ctx, date)
}

// Delete removes today's entry number and returns the recalculated daily
// total, 0 when no entries remain. Later entries are renumbered down by one.
func (s *EntryStore) Delete(ctx context.Context, number int) (int, error) {
	date := s.now().Format(DateLayout)

	day, err := s.listDay(ctx, date)
	if err != nil {
		return 0, err
	}
	target, err := resolve(day, number)
	if err != nil {
		return 0, err
	}

	if err := s.rows.DeleteRow(ctx, target.index); err != nil {
		return 0, unavailable("deleting row", err)
	}

	s.logger.Info("entry deleted", "entry", number)
	return s.recalculate(ctx, date)
}

// Recalculate rewrites the running total of every entry today and returns
// the final total. Calling it twice writes the same values both times.
func (s *EntryStore) Recalculate(ctx context.Context) (int, error) {
	return s.recalculate(ctx, s.now().Format(DateLayout))
}

func (s *EntryStore) recalculate(ctx context.Context, date string) (int, error) {
	day, err := s.listDay(ctx, date)
	if err != nil {
		return 0, err
	}

	running := 0
	for _, r := range day {
		running += s.calories(r)
		// Written even when unchanged: this pass is what repairs the column.
		if err := s.rows.UpdateCell(ctx, r.index, ColDailyTotal, strconv.Itoa(running)); err != nil {
			return 0, unavailable("writing daily total", err)
		}
	}

	s.logger.Debug("daily totals recalculated", "date", date, "entries", len(day), "daily_total", running)
	return running, nil
}
