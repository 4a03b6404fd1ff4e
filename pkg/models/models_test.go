package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		valid bool
		str   string
	}{
		{in: `12.5`, value: 12.5, valid: true, str: "12.5"},
		{in: `"7"`, value: 7, valid: true, str: "7"},
		{in: `"85%"`, value: 85, valid: true, str: "85"},
		{in: `" 92.4 %"`, value: 92.4, valid: true, str: "92.4"},
		{in: `null`, valid: false, str: ""},
		{in: `"n/a"`, valid: false, str: "n/a"},
		{in: `""`, valid: false, str: ""},
		{in: `true`, valid: false, str: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.valid, n.Valid)
			assert.InDelta(t, tt.value, n.Value, 1e-9)
			assert.Equal(t, tt.str, n.String())
		})
	}
}

func TestNumberMissingFieldIsInvalid(t *testing.T) {
	var op Operation
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Completed"}`), &op))
	assert.False(t, op.PlannedHours.Valid)
	assert.Equal(t, 0, op.ActualHours.Int())
	assert.Equal(t, "0.0", op.ActualHours.Fixed())
}

func TestNumberMarshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NewNumber(3.25)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3.25,"b":null}`, string(b))
}

func TestIDAcceptsStringOrNumber(t *testing.T) {
	var jobs []BoardJob
	require.NoError(t, json.Unmarshal([]byte(`[{"id":42},{"id":"J-7"},{"id":null}]`), &jobs))
	require.Len(t, jobs, 3)
	assert.Equal(t, ID("42"), jobs[0].ID)
	assert.Equal(t, ID("J-7"), jobs[1].ID)
	assert.Equal(t, ID(""), jobs[2].ID)
}

func TestWorkOrderDone(t *testing.T) {
	completed := Operation{Status: StatusCompleted}
	assert.True(t, WorkOrder{Operations: []Operation{completed, completed}}.Done())
	assert.False(t, WorkOrder{Operations: []Operation{completed, {Status: "In Progress"}}}.Done())
	assert.False(t, WorkOrder{Operations: []Operation{{Status: "completed"}}}.Done())
	assert.False(t, WorkOrder{}.Done())
}

func TestBoardJobTitle(t *testing.T) {
	assert.Equal(t, "Cut blanks", BoardJob{Task: "Cut blanks", JobNumber: "J1"}.Title())
	assert.Equal(t, "J1", BoardJob{JobNumber: "J1"}.Title())
}

func TestWorkCentersKeepOrder(t *testing.T) {
	payload := `{"SAW":{"available_work":3,"backlog":"9","efficiency":"85%"},
		"MILL":{"available_work":1,"backlog":2,"efficiency":null},
		"ASSY":{"available_work":0,"backlog":0,"efficiency":100}}`
	var wc WorkCenters
	require.NoError(t, json.Unmarshal([]byte(payload), &wc))
	assert.Equal(t, []string{"SAW", "MILL", "ASSY"}, wc.Names())
	assert.InDelta(t, 12.0, wc[0].Load(), 1e-9)
	assert.Equal(t, 85, wc[0].Efficiency.Int())
	assert.False(t, wc[1].Efficiency.Valid)
}

func TestWorkCentersRejectNonObject(t *testing.T) {
	var wc WorkCenters
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &wc))

	require.NoError(t, json.Unmarshal([]byte(`null`), &wc))
	assert.Empty(t, wc)
}

func TestForecastSetKeepsOrder(t *testing.T) {
	var fs ForecastSet
	require.NoError(t, json.Unmarshal([]byte(`{"Z":{"planned":10,"actual":8},"A":{"planned":"4","remaining":1}}`), &fs))
	require.Len(t, fs, 2)
	assert.Equal(t, "Z", fs[0].WorkCenter)
	assert.Equal(t, "A", fs[1].WorkCenter)
	assert.InDelta(t, 4.0, fs[1].Planned.Value, 1e-9)
	assert.False(t, fs[1].Actual.Valid)
}

func TestParseInstant(t *testing.T) {
	loc := time.FixedZone("shop", -5*3600)
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, loc), ok: true},
		{in: "2024-03-01T08:30:00", want: time.Date(2024, 3, 1, 8, 30, 0, 0, loc), ok: true},
		{in: "2024-03-01T08:30:00.250000", want: time.Date(2024, 3, 1, 8, 30, 0, 250000000, loc), ok: true},
		{in: "2024-03-01 08:30:00", want: time.Date(2024, 3, 1, 8, 30, 0, 0, loc), ok: true},
		{in: "2024-03-01T08:30:00Z", want: time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), ok: true},
		{in: "", ok: false},
		{in: "next tuesday", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseInstant(tt.in, loc)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestDatePrefix(t *testing.T) {
	assert.Equal(t, "2024-03-01", DatePrefix("2024-03-01T08:30:00"))
	assert.Equal(t, "2024-03-01", DatePrefix("2024-03-01"))
	assert.Equal(t, "", DatePrefix("2024-3"))
}

func TestUploadResponseSuccess(t *testing.T) {
	assert.True(t, UploadResponse{Status: "success"}.Success())
	assert.False(t, UploadResponse{Status: "Success"}.Success())
	assert.False(t, UploadResponse{Error: "bad file"}.Success())
}
