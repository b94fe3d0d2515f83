package config

import (
	"strings"
	"testing"
	"time"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.Scheduler.Jobs = []JobConfig{{Topic: "climate", Time: "08:00"}}
	c.FillDefaults()
	if c.Report.MaxResults != 10 || c.Report.Language != "en" {
		t.Errorf("report defaults = %+v", c.Report)
	}
	if c.Publish.Provider != "notion" || c.Scheduler.Store != "memory" {
		t.Errorf("provider/store defaults = %q/%q", c.Publish.Provider, c.Scheduler.Store)
	}
	j := c.Scheduler.Jobs[0]
	if j.MaxResults != 10 || j.Language != "en" || len(j.Notify) != 1 || j.Notify[0] != "console" {
		t.Errorf("job defaults = %+v", j)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	var c Config
	c.FillDefaults()
	c.Retry.Cooldown = "soon"
	c.Publish.Provider = "wordpress"
	c.Scheduler.Jobs = []JobConfig{{Time: "08:00"}}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"retry.cooldown", "publish.provider", "scheduler.jobs[0]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err, want)
		}
	}
}

func TestValidateSchedulerInterval(t *testing.T) {
	cases := map[string]bool{"30s": true, "1m": true, "5m": false, "-1s": false}
	for in, ok := range cases {
		var c Config
		c.FillDefaults()
		c.Scheduler.Interval = in
		err := c.Validate()
		flagged := err != nil && strings.Contains(err.Error(), "scheduler.interval")
		if flagged == ok {
			t.Errorf("interval %s: err = %v", in, err)
		}
	}
}

func TestFormatDatabaseID(t *testing.T) {
	cases := map[string]string{
		"1234567890abcdef1234567890abcdef":     "12345678-90ab-cdef-1234-567890abcdef",
		" 12345678-90ab-cdef-1234-567890abcdef": "12345678-90ab-cdef-1234-567890abcdef",
		"short":                                "short",
		"":                                     "",
	}
	for in, want := range cases {
		if got := FormatDatabaseID(in); got != want {
			t.Errorf("FormatDatabaseID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDuration(t *testing.T) {
	if d := Duration("2s", time.Minute); d != 2*time.Second {
		t.Errorf("Duration = %v", d)
	}
	if d := Duration("nope", time.Minute); d != time.Minute {
		t.Errorf("fallback = %v", d)
	}
}
