package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrTime(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return &t
}

func TestAttendance_WorkedHours(t *testing.T) {
	stored := 7.5
	cases := []struct {
		name   string
		a      Attendance
		want   float64
		wantOK bool
	}{
		{"clock difference", Attendance{ClockIn: ptrTime("2025-10-01T09:00:00Z"), ClockOut: ptrTime("2025-10-01T18:00:00Z")}, 9, true},
		{"stored hours win", Attendance{WorkingHours: &stored, ClockIn: ptrTime("2025-10-01T09:00:00Z"), ClockOut: ptrTime("2025-10-01T18:00:00Z")}, 7.5, true},
		{"missing clock out", Attendance{ClockIn: ptrTime("2025-10-01T09:00:00Z")}, 0, true},
		{"clock out before clock in", Attendance{ClockIn: ptrTime("2025-10-01T18:00:00Z"), ClockOut: ptrTime("2025-10-01T09:00:00Z")}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.a.WorkedHours()
			assert.Equal(t, c.wantOK, ok)
			assert.InDelta(t, c.want, got, 1e-9)
		})
	}
}
