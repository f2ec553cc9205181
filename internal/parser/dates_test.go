package parser

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2026, 2, 15, 12, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		text     string
		expected time.Time
	}{
		{
			name:     "absence marker with date on preceding line",
			text:     "⚡️ 16 лютого\nГодини відсутності електропостачання\n1.1: 08:00-10:00",
			expected: date(2026, 2, 16),
		},
		{
			name:     "absence marker scans up to three lines back",
			text:     "Шановні споживачі!\n16 лютого\nу зв'язку з дефіцитом потужності\nдіятимуть графіки\nГодини відсутності електропостачання",
			expected: date(2026, 2, 16),
		},
		{
			name:     "headline marker with month name",
			text:     "Графік на 15 лютого\n1.1: 00:00 – 02:00",
			expected: date(2026, 2, 15),
		},
		{
			name:     "headline marker with numeric date",
			text:     "Графік відключень на 16.02\n1.1: 08:00-10:00",
			expected: date(2026, 2, 16),
		},
		{
			name:     "станом на marker",
			text:     "Станом на 15.02.2026 діють відключення",
			expected: date(2026, 2, 15),
		},
		{
			name:     "month name anywhere in text",
			text:     "Відключення заплановані на вечір\nЗастосовуються графіки 16 лютого по всій області",
			expected: date(2026, 2, 16),
		},
		{
			name:     "numeric date anywhere in text",
			text:     "Аварійні відключення\nДіє з 16.02 до відбою",
			expected: date(2026, 2, 16),
		},
		{
			name:     "date in footer is ignored",
			text:     "Аварійні відключення діють зараз\nНаступне оновлення 16 лютого о 08:00",
			expected: date(2026, 2, 15),
		},
		{
			name:     "relative today",
			text:     "Сьогодні діють графіки відключень",
			expected: date(2026, 2, 15),
		},
		{
			name:     "relative tomorrow",
			text:     "Завтра очікуються відключення",
			expected: date(2026, 2, 16),
		},
		{
			name:     "no date defaults to reference day",
			text:     "Графіки відключень діють",
			expected: date(2026, 2, 15),
		},
		{
			name:     "nominative month form",
			text:     "Графік на 1 лютий",
			expected: date(2026, 2, 1),
		},
		{
			name:     "case-insensitive month",
			text:     "Графік на 16 ЛЮТОГО",
			expected: date(2026, 2, 16),
		},
		{
			name:     "queue key is not a numeric date",
			text:     "Графік на завтра\n1.2: 00:00-02:00",
			expected: date(2026, 2, 16),
		},
		{
			name:     "out-of-range numeric month falls through to relative",
			text:     "Діє з 05.13 сьогодні",
			expected: date(2026, 2, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.text, now)
			if !ok {
				t.Fatal("expected a resolved date")
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveDateBlankText(t *testing.T) {
	if _, ok := ResolveDate("   \n  ", time.Now()); ok {
		t.Error("blank text should not resolve")
	}
}

func TestResolveDateYearRollover(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		text     string
		expected time.Time
	}{
		{
			name:     "december post for january resolves to next year",
			now:      time.Date(2025, 12, 30, 10, 0, 0, 0, time.Local),
			text:     "Графік на 3 січня",
			expected: date(2026, 1, 3),
		},
		{
			name:     "january post for december resolves to previous year",
			now:      time.Date(2026, 1, 2, 10, 0, 0, 0, time.Local),
			text:     "Графік на 31 грудня",
			expected: date(2025, 12, 31),
		},
		{
			name:     "numeric date rollover",
			now:      time.Date(2025, 12, 30, 10, 0, 0, 0, time.Local),
			text:     "Графік на 01.01",
			expected: date(2026, 1, 1),
		},
		{
			name:     "explicit year wins over rollover",
			now:      time.Date(2025, 12, 30, 10, 0, 0, 0, time.Local),
			text:     "Графік на 01.01.2025",
			expected: date(2025, 1, 1),
		},
		{
			name:     "same-year month keeps reference year",
			now:      time.Date(2025, 12, 30, 10, 0, 0, 0, time.Local),
			text:     "Графік на 31 грудня",
			expected: date(2025, 12, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.text, tt.now)
			if !ok {
				t.Fatal("expected a resolved date")
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestMonthTableCoversAllMonths(t *testing.T) {
	seen := make(map[time.Month]int)
	for _, m := range ukrainianMonths {
		seen[m]++
	}
	if len(seen) != 12 {
		t.Fatalf("expected 12 months, got %d", len(seen))
	}
	for month, forms := range seen {
		if forms != 2 {
			t.Errorf("month %s: expected genitive and nominative forms, got %d", month, forms)
		}
	}
}
