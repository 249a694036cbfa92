package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"timestamp truncated to date", `"2025-01-15T00:00:00.000Z"`, "2025-01-15", false},
		{"date only", `"2025-01-15"`, "2025-01-15", false},
		{"null", `null`, "", false},
		{"empty string", `""`, "", false},
		{"not a string", `20250115`, "", true},
		{"bad format", `"15/01/2025"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2025, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-01"`, string(data))

	data, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestDate_UnmarshalParam(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalParam("2024-12-31"))
	assert.Equal(t, 2024, d.Year())

	err := d.UnmarshalParam("31/12/2024")
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"0.04", "0.04", false},
		{"0,04", "0.04", false},
		{"1.234,56", "1234.56", false},
		{"1500", "1500", false},
		{" 12 ", "12", false},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidValue))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAmount_JSON(t *testing.T) {
	var payload struct {
		Value Amount `json:"value"`
		Rate  Amount `json:"rate"`
		Null  Amount `json:"null"`
	}
	err := json.Unmarshal([]byte(`{"value": 1500.5, "rate": "0.04", "null": null}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, "1500.5", payload.Value.String())
	assert.Equal(t, "0.04", payload.Rate.String())
	assert.True(t, payload.Null.IsZero())

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 1500.5, "rate": 0.04, "null": 0}`, string(data))
}
