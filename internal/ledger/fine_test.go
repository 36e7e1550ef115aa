package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFine(t *testing.T) {
	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("on time costs nothing", func(t *testing.T) {
		assert.EqualValues(t, 0, Fine(due, due, 5))
		assert.EqualValues(t, 0, Fine(due, due.Add(-48*time.Hour), 5))
	})

	t.Run("six days late at 5 per day", func(t *testing.T) {
		assert.EqualValues(t, 30, Fine(due, due.AddDate(0, 0, 6), 5))
	})

	t.Run("partial days do not count", func(t *testing.T) {
		assert.EqualValues(t, 0, Fine(due, due.Add(23*time.Hour), 5))
		assert.EqualValues(t, 5, Fine(due, due.Add(25*time.Hour), 5))
		assert.EqualValues(t, 30, Fine(due, due.Add(6*24*time.Hour+time.Hour), 5))
	})

	t.Run("zero rate", func(t *testing.T) {
		assert.EqualValues(t, 0, Fine(due, due.AddDate(0, 0, 10), 0))
	})

	t.Run("deterministic", func(t *testing.T) {
		returned := due.AddDate(0, 0, 9)
		first := Fine(due, returned, 7)
		second := Fine(due, returned, 7)
		assert.Equal(t, first, second)
		assert.EqualValues(t, 63, first)
	})
}

func TestLendingRecordOverdue(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := LendingRecord{Status: StatusNotReturned, DueDate: due}

	assert.False(t, rec.Overdue(due))
	assert.True(t, rec.Overdue(due.Add(time.Hour)))

	rec.Status = StatusReturned
	assert.False(t, rec.Overdue(due.Add(time.Hour)))
}
