package schedule

import (
	"testing"
	"time"
)

func TestIsNight(t *testing.T) {
	p := DefaultPolicy()

	for hour := 0; hour < 24; hour++ {
		want := hour >= 20 || hour < 6
		if got := p.IsNight(hour); got != want {
			t.Errorf("Expected IsNight(%d) = %v, got %v", hour, want, got)
		}
	}

	t.Run("should support a range that does not wrap midnight", func(t *testing.T) {
		p := Policy{NightStartHour: 1, NightEndHour: 5}
		if !p.IsNight(3) || p.IsNight(5) || p.IsNight(0) {
			t.Error("Expected night only between 01:00 and 05:00")
		}
	})
}

func TestInterval(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		hour, minute int
		want         time.Duration
	}{
		{6, 29, 10 * time.Minute},
		{6, 30, 5 * time.Minute},
		{7, 15, 5 * time.Minute},
		{8, 59, 5 * time.Minute},
		{9, 0, 10 * time.Minute},
		{12, 0, 10 * time.Minute},
		{15, 59, 10 * time.Minute},
		{16, 0, 5 * time.Minute},
		{17, 59, 5 * time.Minute},
		{18, 0, 10 * time.Minute},
		{23, 0, 10 * time.Minute},
	}

	for _, c := range cases {
		if got := p.Interval(c.hour, c.minute); got != c.want {
			t.Errorf("Expected interval %s at %02d:%02d, got %s", c.want, c.hour, c.minute, got)
		}
	}
}

func TestEvaluate(t *testing.T) {
	p := DefaultPolicy()
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("time zone database unavailable")
	}

	t.Run("should evaluate in the location of the instant", func(t *testing.T) {
		// 05:45 UTC is 07:45 in Paris during summer time
		d := p.Evaluate(time.Date(2024, time.June, 3, 5, 45, 0, 0, time.UTC).In(paris))
		if d.Night {
			t.Error("Expected daytime at 07:45 Paris")
		}
		if d.Interval != 5*time.Minute {
			t.Errorf("Expected rush interval, got %s", d.Interval)
		}
	})

	t.Run("should keep the interval during the night", func(t *testing.T) {
		d := p.Evaluate(time.Date(2024, time.June, 3, 22, 0, 0, 0, paris))
		if !d.Night {
			t.Error("Expected night at 22:00")
		}
		if d.Interval != 10*time.Minute {
			t.Errorf("Expected normal interval, got %s", d.Interval)
		}
	})
}

func TestValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("Expected default policy to be valid, got %v", err)
	}

	bad := []Policy{
		{RushInterval: 0, NormalInterval: time.Minute},
		{RushInterval: time.Minute, NormalInterval: time.Minute, NightStartHour: 24},
		{RushInterval: time.Minute, NormalInterval: time.Minute, RushWindows: []Window{{Start: At(9, 0), End: At(8, 0)}}},
	}
	for i, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("Expected policy %d to be rejected", i)
		}
	}
}

func TestServiceHours(t *testing.T) {
	if got := DefaultPolicy().ServiceHours(); got != "06:00-20:00" {
		t.Errorf("Expected 06:00-20:00, got %s", got)
	}
}
