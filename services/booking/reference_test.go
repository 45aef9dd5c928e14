package booking

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"villastay/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	tests := map[string]string{
		"Ocean Breeze Cottage": "OC",
		"ocean":                "OC",
		"  Sunset Villa":       "SU",
		"3 Palms":              "XX",
		"A1 Villa":             "AX",
		"":                     "XX",
		"Él Refugio":           "LX",
		"X":                    "XX",
		"Mar-a-Lago":           "MA",
	}
	for name, want := range tests {
		assert.Equal(t, want, Prefix(name), "Prefix(%q)", name)
	}
}

func TestGenerate_ThirdBookingOfTheDay(t *testing.T) {
	gen := NewReferenceGenerator(newMemCounterRepo(), time.UTC)
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	var ref string
	var err error
	for i := 0; i < 3; i++ {
		ref, err = gen.Generate(context.Background(), "villa-1", "Ocean Breeze Cottage", now)
		require.NoError(t, err)
	}
	assert.Equal(t, "OC2024030503", ref)
	assert.Regexp(t, ReferencePattern, ref)
}

func TestGenerate_SequenceIsPerVillaAndDay(t *testing.T) {
	gen := NewReferenceGenerator(newMemCounterRepo(), time.UTC)
	ctx := context.Background()
	day1 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	first, err := gen.Generate(ctx, "villa-1", "Ocean Breeze", day1)
	require.NoError(t, err)
	second, err := gen.Generate(ctx, "villa-1", "Ocean Breeze", day1)
	require.NoError(t, err)
	other, err := gen.Generate(ctx, "villa-2", "Sunset Point", day1)
	require.NoError(t, err)
	nextDay, err := gen.Generate(ctx, "villa-1", "Ocean Breeze", day2)
	require.NoError(t, err)

	assert.Equal(t, "OC2024030501", first)
	assert.Equal(t, "OC2024030502", second)
	assert.Equal(t, "SU2024030501", other)
	assert.Equal(t, "OC2024030601", nextDay)
}

func TestGenerate_UsesReferenceTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	gen := NewReferenceGenerator(newMemCounterRepo(), loc)
	// 22:30 UTC on the 5th is already the 6th three hours east.
	now := time.Date(2024, 3, 5, 22, 30, 0, 0, time.UTC)

	ref, err := gen.Generate(context.Background(), "villa-1", "Ocean Breeze", now)
	require.NoError(t, err)
	assert.Equal(t, "OC2024030601", ref)
}

func TestGenerate_ConcurrentCallsNeverCollide(t *testing.T) {
	gen := NewReferenceGenerator(newMemCounterRepo(), time.UTC)
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	const workers = 50

	refs := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := gen.Generate(context.Background(), "villa-1", "Ocean Breeze", now)
			if assert.NoError(t, err) {
				refs <- ref
			}
		}()
	}
	wg.Wait()
	close(refs)

	seen := map[string]bool{}
	for ref := range refs {
		assert.Regexp(t, ReferencePattern, ref)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
	assert.Len(t, seen, workers)
}

func TestGenerate_TwoSimultaneousIncrementsFromZero(t *testing.T) {
	gen := NewReferenceGenerator(newMemCounterRepo(), time.UTC)
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	results := make([]string, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = gen.Generate(context.Background(), "villa-1", "Ocean Breeze", now)
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"OC2024030501", "OC2024030502"}, results)
}

func TestGenerate_RejectsSequenceAboveLimit(t *testing.T) {
	counter := newMemCounterRepo()
	counter.seq["villa-1|20240305"] = MaxDailySequence
	gen := NewReferenceGenerator(counter, time.UTC)

	_, err := gen.Generate(context.Background(), "villa-1", "Ocean Breeze", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.AsAppError(err).Status)
}

func TestGenerate_CounterFailure(t *testing.T) {
	counter := newMemCounterRepo()
	counter.err = errors.New("connection reset")
	gen := NewReferenceGenerator(counter, time.UTC)

	_, err := gen.Generate(context.Background(), "villa-1", "Ocean Breeze", time.Now())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, utils.AsAppError(err).Status)
	assert.ErrorIs(t, err, counter.err)
}
