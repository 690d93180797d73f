package domain

import (
	"errors"
	"testing"
	"time"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return loc
}

func TestParseClock_Valid(t *testing.T) {
	cases := []struct {
		in     string
		hh, mm int
	}{
		{"13:30", 13, 30},
		{"0:05", 0, 5},
		{"23:59", 23, 59},
		{" 7:00 ", 7, 0},
	}
	for _, c := range cases {
		hh, mm, err := ParseClock(c.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", c.in, err)
		}
		if hh != c.hh || mm != c.mm {
			t.Fatalf("%q: want %d:%d, got %d:%d", c.in, c.hh, c.mm, hh, mm)
		}
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "1330", "ab:cd", "12:5", "12:345"} {
		if _, _, err := ParseClock(in); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("%q: want ErrInvalidTime, got %v", in, err)
		}
	}
}

func TestCycleHours(t *testing.T) {
	name, hours, err := CycleHours("venatus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Venatus" || hours != 4 {
		t.Fatalf("want Venatus/4, got %s/%d", name, hours)
	}

	name, hours, err = CycleHours("LADY DALIA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Lady Dalia" || hours != 14 {
		t.Fatalf("want Lady Dalia/14, got %s/%d", name, hours)
	}

	if _, _, err := CycleHours("Bahamut"); !errors.Is(err, ErrUnknownBoss) {
		t.Fatalf("want ErrUnknownBoss, got %v", err)
	}
}

func TestComputeOccurrence_NextIsKillPlusCycle(t *testing.T) {
	loc := mustLoc(t, "Asia/Seoul")
	// Undomiel has an 18h cycle: killed 13:30 → spawns next day 07:30.
	now := time.Date(2025, time.May, 5, 13, 31, 0, 0, loc)

	killedAt, spawnsAt, cycle, err := ComputeOccurrence("Undomiel", 13, 30, now, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycle != 18 {
		t.Fatalf("want cycle 18, got %d", cycle)
	}
	wantKill := time.Date(2025, time.May, 5, 13, 30, 0, 0, loc)
	if !killedAt.Equal(wantKill) {
		t.Fatalf("want kill %v, got %v", wantKill, killedAt)
	}
	wantSpawn := time.Date(2025, time.May, 6, 7, 30, 0, 0, loc)
	if !spawnsAt.Equal(wantSpawn) {
		t.Fatalf("want spawn %v, got %v", wantSpawn, spawnsAt)
	}
	if !spawnsAt.Equal(killedAt.Add(18 * time.Hour)) {
		t.Fatalf("spawn is not kill+cycle: %v vs %v", spawnsAt, killedAt)
	}
}

func TestComputeOccurrence_FutureClockStaysToday(t *testing.T) {
	loc := mustLoc(t, "Asia/Seoul")
	// 23:00 supplied at 01:00 is kept on today's date, not rolled back.
	now := time.Date(2025, time.May, 5, 1, 0, 0, 0, loc)

	killedAt, _, _, err := ComputeOccurrence("Venatus", 23, 0, now, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, time.May, 5, 23, 0, 0, 0, loc)
	if !killedAt.Equal(want) {
		t.Fatalf("want %v, got %v", want, killedAt)
	}
}

func TestComputeOccurrence_Rejections(t *testing.T) {
	loc := mustLoc(t, "Asia/Seoul")
	now := time.Now()

	if _, _, _, err := ComputeOccurrence("Nobody", 12, 0, now, loc); !errors.Is(err, ErrUnknownBoss) {
		t.Fatalf("want ErrUnknownBoss, got %v", err)
	}
	if _, _, _, err := ComputeOccurrence("Venatus", 24, 0, now, loc); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("want ErrInvalidTime, got %v", err)
	}
}

func TestNames_SortedByCycle(t *testing.T) {
	names := Names()
	if len(names) != 17 {
		t.Fatalf("want 17 bosses, got %d", len(names))
	}
	prev := 0
	for _, n := range names {
		_, hours, err := CycleHours(n)
		if err != nil {
			t.Fatalf("catalog name %q does not resolve: %v", n, err)
		}
		if hours < prev {
			t.Fatalf("names not sorted by cycle at %q", n)
		}
		prev = hours
	}
}
