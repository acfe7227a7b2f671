package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseTransitions(t *testing.T) {
	cases := []struct {
		from    LeaseStatus
		to      LeaseStatus
		allowed bool
	}{
		{LeaseStatusPending, LeaseStatusActive, true},
		{LeaseStatusPending, LeaseStatusTerminated, true},
		{LeaseStatusPending, LeaseStatusExpired, false},
		{LeaseStatusPending, LeaseStatusRenewed, false},
		{LeaseStatusActive, LeaseStatusExpired, true},
		{LeaseStatusActive, LeaseStatusTerminated, true},
		{LeaseStatusActive, LeaseStatusRenewed, true},
		{LeaseStatusActive, LeaseStatusPending, false},
		// Терминальные статусы
		{LeaseStatusTerminated, LeaseStatusActive, false},
		{LeaseStatusExpired, LeaseStatusActive, false},
		{LeaseStatusRenewed, LeaseStatusActive, false},
	}

	for _, c := range cases {
		lease := &Lease{Status: c.from}
		err := lease.Transition(c.to)
		if c.allowed {
			require.NoError(t, err, "переход %s -> %s должен быть разрешен", c.from, c.to)
			assert.Equal(t, c.to, lease.Status)
		} else {
			require.ErrorIs(t, err, ErrInvalidTransition, "переход %s -> %s должен быть запрещен", c.from, c.to)
			assert.Equal(t, c.from, lease.Status, "статус не должен меняться при запрещенном переходе")
		}
	}
}

func TestLeaseOverlaps(t *testing.T) {
	lease := &Lease{
		StartDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC),
	}

	// Пересечение в середине периода
	assert.True(t, lease.Overlaps(
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
	))

	// Касание границы считается пересечением
	assert.True(t, lease.Overlaps(
		time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
	))

	// Период целиком после окончания
	assert.False(t, lease.Overlaps(
		time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
	))

	// Период целиком до начала
	assert.False(t, lease.Overlaps(
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
	))
}
