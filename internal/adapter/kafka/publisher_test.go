package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydonmn/surf-vista/internal/domain"
)

func TestSerializeReport(t *testing.T) {
	date := time.Date(2026, time.June, 15, 0, 0, 0, 0, domain.ReportLocation())
	updatedAt := time.Date(2026, time.June, 15, 13, 0, 0, 0, time.UTC)
	report := domain.SurfReport{
		Date:        date,
		SurfDisplay: "2.5-3.0 ft",
		Conditions:  "Good surf on tap today.",
		Rating:      7,
		UpdatedAt:   updatedAt,
	}

	msg, err := serializeReport(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("2026-06-15"), msg.Key)
	assert.Contains(t, string(msg.Value), `"surf_display":"2.5-3.0 ft"`)
	assert.Contains(t, string(msg.Value), `"rating":7`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "rating", msg.Headers[0].Key)
	assert.Equal(t, []byte("7"), msg.Headers[0].Value)
	assert.Equal(t, "updated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(updatedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeReport_OmitsUnsetOverride(t *testing.T) {
	report := domain.SurfReport{
		Date:   time.Date(2026, time.June, 15, 0, 0, 0, 0, domain.ReportLocation()),
		Rating: 5,
	}

	msg, err := serializeReport(report)
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Value), "report_text")
	assert.NotContains(t, string(msg.Value), "edited_by")
}
