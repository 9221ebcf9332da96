//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		wantErr  bool
	}{
		{"Applied", StatusApplied, false},
		{"interview", StatusInterview, false},
		{" REJECTED ", StatusRejected, false},
		{"Offer", StatusOffer, false},
		{"Withdrawn", StatusWithdrawn, false},
		{"Hired", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.Valid())
		})
	}

	assert.False(t, Status("applied").Valid())
}

func TestNewApplicationRecord(t *testing.T) {
	posting := JobPosting{
		Platform: "Lever",
		Company:  "Jobs",
		JobID:    "abcd-1234",
		URL:      "https://jobs.lever.co/acme-corp/abcd-1234",
	}
	at := time.Date(2024, 3, 1, 9, 30, 45, 0, time.UTC)

	record := NewApplicationRecord(posting, at)

	assert.Equal(t, ApplicationRecord{
		URL:      posting.URL,
		Company:  "Jobs",
		Platform: "Lever",
		Date:     "2024-03-01 09:30",
		Status:   StatusApplied,
	}, record)

	validate := validator.New()
	assert.NoError(t, validate.Struct(record))
}

func TestApplicationRecord_JSON(t *testing.T) {
	record := ApplicationRecord{
		URL:      "https://boards.greenhouse.io/acme/jobs/1",
		Company:  "Boards",
		Platform: "Greenhouse",
		Date:     "2024-03-01 09:30",
		Status:   StatusOffer,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://boards.greenhouse.io/acme/jobs/1","company":"Boards","platform":"Greenhouse","date":"2024-03-01 09:30","status":"Offer"}`, string(data))
}

func TestImportApplications(t *testing.T) {
	records, err := ImportApplications([]byte(`[
		{"url":"a","company":"A","platform":"Lever","date":"2024-01-01 10:00","status":"Applied"},
		{"url":"a","company":"A","platform":"Lever","date":"2024-01-02 10:00","status":"Interview"}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, StatusApplied, records[0].Status)
	assert.Equal(t, StatusInterview, records[1].Status, "order and duplicates are kept")

	empty, err := ImportApplications([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = ImportApplications([]byte(`[{"url":"a"}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImportFailed))

	_, err = ImportApplications([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrImportFailed))
}
