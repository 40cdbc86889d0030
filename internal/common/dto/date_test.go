package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalLayouts(t *testing.T) {
	cases := map[string]string{
		`"2024-03-01"`:                "2024-03-01",
		`"2024-03-01T23:30:00Z"`:      "2024-03-01",
		`"2024-03-01T23:30:00-02:00"`: "2024-03-02",
		`"2024-03-01T08:00:00"`:       "2024-03-01",
	}
	for in, want := range cases {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(in), &d), in)
		assert.Equal(t, want, d.String(), in)
		assert.Equal(t, time.UTC, d.Location())
	}
}

func TestDate_Invalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/03/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240301`), &d))
}

func TestDate_NullLeavesPointerNil(t *testing.T) {
	var in ReportInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"abc","reportDate":null}`), &in))
	assert.Nil(t, in.ReportDate)
	assert.Nil(t, in.ReportDate.TimePtr())
}

func TestDate_Marshal(t *testing.T) {
	d := NewDate(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC))
	out, err := json.Marshal(Report{ID: "x", ReportDate: &d})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"reportDate":"2024-05-06"`)

	out, err = json.Marshal(Report{ID: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"reportDate":null`)
}

func TestDatePtrRoundTrip(t *testing.T) {
	assert.Nil(t, DatePtr(nil))
	ts := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	d := DatePtr(&ts)
	require.NotNil(t, d)
	assert.Equal(t, ts, *d.TimePtr())
}
