package curator

import (
	"context"
	"errors"
	"os"
	"testing"

	"foley/internal/asset"
	"foley/internal/config"
	"foley/internal/services"
	"foley/internal/testsupport"
)

func planRequests() []Request {
	profile := energyProfile(0, 1)
	return []Request{
		{Category: asset.CategoryBGM, Key: "calm", Prompt: "p", Duration: 1, Profile: profile},
		{Category: asset.CategorySFX, Key: "punch", Prompt: "p", Duration: 1, Profile: profile},
		{Category: asset.CategoryAmbience, Key: "wind", Prompt: "p", Duration: 1, Profile: profile},
	}
}

func TestCurateBatchCommitsEveryKey(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithVariationCount(2),
		testsupport.WithParallelism(2),
	)
	gen := &fakeGenerator{}
	c := newTestCurator(t, cfg, gen)

	items, err := c.CurateBatch(context.Background(), planRequests())
	if err != nil {
		t.Fatalf("CurateBatch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	for _, item := range items {
		if item.Err != nil {
			t.Fatalf("key %s failed: %v", item.Request.Key, item.Err)
		}
		if _, err := os.Stat(item.Result.Entry.Path); err != nil {
			t.Fatalf("committed file missing for %s: %v", item.Request.Key, err)
		}
	}
	if items[1].Request.Key != "punch" {
		t.Fatal("batch results must preserve request order")
	}
}

func TestCurateBatchRerunSkipsEverythingWithoutGenerating(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVariationCount(2))
	requests := planRequests()

	first := &fakeGenerator{}
	c := newTestCurator(t, cfg, first)
	if _, err := c.CurateBatch(context.Background(), requests); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	second := &fakeGenerator{}
	c2 := newTestCurator(t, cfg, second)
	items, err := c2.CurateBatch(context.Background(), requests)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	for _, item := range items {
		if !item.Result.Skipped {
			t.Fatalf("key %s should have been skipped on rerun", item.Request.Key)
		}
	}
	if second.callCount() != 0 {
		t.Fatalf("rerun generator calls = %d, want 0", second.callCount())
	}
}

func TestCurateBatchIsolatesPerKeyFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVariationCount(1), testsupport.WithParallelism(1))
	gen := &fakeGenerator{
		failCall: func(call int) error {
			if call == 0 {
				return errors.New("renderer crashed")
			}
			return nil
		},
	}
	c := newTestCurator(t, cfg, gen)

	items, err := c.CurateBatch(context.Background(), planRequests())
	if err != nil {
		t.Fatalf("CurateBatch: %v", err)
	}
	if !errors.Is(items[0].Err, services.ErrGenerationExhausted) {
		t.Fatalf("first key err = %v, want ErrGenerationExhausted", items[0].Err)
	}
	for _, item := range items[1:] {
		if item.Err != nil {
			t.Fatalf("key %s should have succeeded: %v", item.Request.Key, item.Err)
		}
	}
}

func TestCurateBatchEmptyPlanIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	c := newTestCurator(t, cfg, &fakeGenerator{})

	items, err := c.CurateBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("CurateBatch: %v", err)
	}
	if items != nil {
		t.Fatalf("items = %v, want nil", items)
	}
}

func TestRequestsFromPlanResolvesProfiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Curation.Plan = []config.PlanEntry{
		{Category: "bgm", Key: "calm", Prompt: "p", DurationSeconds: 8},
		{Category: "attack", Key: "rasengan", Character: "naruto", Prompt: "p", DurationSeconds: 2},
	}

	requests := RequestsFromPlan(cfg)
	if len(requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(requests))
	}
	if requests[0].Category != asset.CategoryBGM || requests[0].Duration != 8 {
		t.Fatalf("unexpected first request: %+v", requests[0])
	}
	if requests[1].Character != "naruto" {
		t.Fatalf("character lost: %+v", requests[1])
	}
	if requests[0].ProfileName == "" {
		t.Fatal("profile name must resolve")
	}
}
