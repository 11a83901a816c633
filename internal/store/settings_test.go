package store

import (
	"context"
	"testing"

	"github.com/mzajc/homevault/internal/db"
)

func TestGetInstallIDStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetInstallID(ctx, database)
	if err != nil {
		t.Fatalf("GetInstallID: %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated install id")
	}

	second, err := GetInstallID(ctx, database)
	if err != nil {
		t.Fatalf("GetInstallID (second call): %v", err)
	}
	if first != second {
		t.Errorf("install id changed between calls: %q vs %q", first, second)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	got, err := GetSetting(ctx, database, "theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty value for unset key, got %q", got)
	}

	if err := SetSetting(ctx, database, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := SetSetting(ctx, database, "theme", "light"); err != nil {
		t.Fatalf("SetSetting (overwrite): %v", err)
	}

	got, _ = GetSetting(ctx, database, "theme")
	if got != "light" {
		t.Errorf("expected overwritten value 'light', got %q", got)
	}
}
