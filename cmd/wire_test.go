package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"news-reporter/internal/config"
	"news-reporter/internal/report"
	"news-reporter/internal/schedule"
	"news-reporter/internal/storage"
)

func TestSeedJobsDropsRemovedConfigJobs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.db")
	st, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	var cfg config.Config
	cfg.Scheduler.Jobs = []config.JobConfig{
		{Topic: "climate", Time: "08:00"},
		{Topic: "crypto", Time: "09:00"},
	}
	jobs, err := configuredJobs(cfg)
	if err != nil {
		t.Fatalf("configuredJobs: %v", err)
	}
	if err := seedJobs(ctx, st, jobs); err != nil {
		t.Fatalf("seedJobs: %v", err)
	}
	manual := schedule.Job{ID: "cli-1", TimeOfDay: "10:00", Request: report.Request{Topic: "ai"}}
	if err := st.Add(ctx, manual); err != nil {
		t.Fatalf("Add: %v", err)
	}
	st.Close()

	// restart with one job dropped from the config
	st, err = storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()
	cfg.Scheduler.Jobs = cfg.Scheduler.Jobs[:1]
	jobs, err = configuredJobs(cfg)
	if err != nil {
		t.Fatalf("configuredJobs: %v", err)
	}
	if err := seedJobs(ctx, st, jobs); err != nil {
		t.Fatalf("seedJobs: %v", err)
	}

	got, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	ids := map[string]string{}
	for _, j := range got {
		ids[j.ID] = j.Topic()
	}
	if len(got) != 2 || ids["config-0"] != "climate" || ids["cli-1"] != "ai" {
		t.Fatalf("stored jobs = %+v", got)
	}
	if _, ok := ids["config-1"]; ok {
		t.Error("removed config job still stored")
	}
}

func TestSeedJobsUpdatesChangedConfigJob(t *testing.T) {
	ctx := context.Background()
	st := schedule.NewMemoryStore()
	first := []schedule.Job{{ID: "config-0", TimeOfDay: "08:00", Request: report.Request{Topic: "climate"}}}
	if err := seedJobs(ctx, st, first); err != nil {
		t.Fatalf("seedJobs: %v", err)
	}
	second := []schedule.Job{{ID: "config-0", TimeOfDay: "18:30", Request: report.Request{Topic: "energy"}}}
	if err := seedJobs(ctx, st, second); err != nil {
		t.Fatalf("seedJobs: %v", err)
	}
	got, _ := st.List(ctx)
	if len(got) != 1 || got[0].TimeOfDay != "18:30" || got[0].Topic() != "energy" {
		t.Fatalf("stored jobs = %+v", got)
	}
}
