package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateAcceptsTimestamps(t *testing.T) {
	cases := []string{
		"1985-10-15",
		"1985-10-15T00:00:00",
		"1985-10-15T13:45:00Z",
		"1985-10-15T23:59:59+02:00",
	}
	for _, in := range cases {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, NewDate(1985, time.October, 15), d, in)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("15/10/1985")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		DateOfBirth Date `json:"dateOfBirth"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"dateOfBirth":"2000-01-02T00:00:00"}`), &payload))
	assert.Equal(t, NewDate(2000, time.January, 2), payload.DateOfBirth)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateOfBirth":"2000-01-02"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"dateOfBirth":20000102}`), &payload))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2001-01-01", d.String())

	require.NoError(t, d.Scan([]byte("1999-12-31")))
	assert.Equal(t, "1999-12-31", d.String())

	assert.Error(t, d.Scan(42))
}
