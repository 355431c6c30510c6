package readlater_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires user ID", func(t *testing.T) {
		t.Parallel()

		err := (&readlater.Entry{URL: "https://example.com"}).Validate()
		require.Error(t, err)
		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()

		err := (&readlater.Entry{UserID: "u1"}).Validate()
		require.Error(t, err)
		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})
}

func TestEntry_Archive(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	e := &readlater.Entry{}
	e.Archive(now)

	assert.True(t, e.IsArchived)
	require.NotNil(t, e.ArchivedAt)
	assert.Equal(t, now, *e.ArchivedAt)
}

func TestEstimateReadingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, readlater.EstimateReadingTime(""))
	assert.Equal(t, 0, readlater.EstimateReadingTime("<p></p>"))
	assert.Equal(t, 1, readlater.EstimateReadingTime("<p>a few words</p>"))

	long := "<p>" + strings.Repeat("word ", 600) + "</p>"
	assert.Equal(t, 3, readlater.EstimateReadingTime(long))
}
