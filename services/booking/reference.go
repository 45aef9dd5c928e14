package booking

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	counterRepo "villastay/database/repository/counter"
	"villastay/utils"
)

// MaxDailySequence is the largest sequence a two-digit reference can carry.
const MaxDailySequence = 99

// ReferencePattern matches every reference the generator issues.
var ReferencePattern = regexp.MustCompile(`^[A-Z]{2}\d{8}\d{2}$`)

// Prefix derives the two-letter villa code from the first word of the
// villa name, padding with X when it has fewer than two letters.
func Prefix(villaName string) string {
	fields := strings.Fields(villaName)
	var b strings.Builder
	if len(fields) > 0 {
		for _, r := range fields[0] {
			if b.Len() == 2 {
				break
			}
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				b.WriteRune(r)
			}
		}
	}
	for b.Len() < 2 {
		b.WriteByte('X')
	}
	return strings.ToUpper(b.String())
}

// ReferenceGenerator issues booking references of the form
// <prefix><yyyymmdd><seq>, with seq taken from a per villa, per day counter.
type ReferenceGenerator struct {
	counter counterRepo.CounterRepository
	loc     *time.Location
}

func NewReferenceGenerator(counter counterRepo.CounterRepository, loc *time.Location) *ReferenceGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &ReferenceGenerator{counter: counter, loc: loc}
}

// Generate reserves the next sequence for the villa on now's date and
// formats the reference.
func (g *ReferenceGenerator) Generate(ctx context.Context, villaID, villaName string, now time.Time) (string, error) {
	date := now.In(g.loc).Format("20060102")
	seq, err := g.counter.Next(ctx, villaID, date)
	if err != nil {
		return "", utils.Internal("failed to generate booking reference", err)
	}
	if seq > MaxDailySequence {
		return "", utils.Conflict(fmt.Sprintf("daily booking limit reached for this villa on %s", date))
	}
	utils.BookingReferencesIssued.Inc()
	return fmt.Sprintf("%s%s%02d", Prefix(villaName), date, seq), nil
}
