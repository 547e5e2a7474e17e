package settings

import (
	"context"
	"path/filepath"
	"testing"

	dbpkg "github.com/kanbohq/kanbo/internal/db"
)

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := dbpkg.Open(filepath.Join(t.TempDir(), "kanbo.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := NewSQLite(db)

	value, err := store.Get(ctx, KeyTheme)
	if err != nil {
		t.Fatalf("get absent key: %v", err)
	}
	if value != "" {
		t.Fatalf("absent key = %q, want empty", value)
	}

	if err := store.Set(ctx, KeyTheme, ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	value, err = store.Get(ctx, KeyTheme)
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if value != ThemeDark {
		t.Fatalf("theme = %q, want %q", value, ThemeDark)
	}

	// Writing again overwrites.
	if err := store.Set(ctx, KeyTheme, ThemeLight); err != nil {
		t.Fatalf("overwrite theme: %v", err)
	}
	value, _ = store.Get(ctx, KeyTheme)
	if value != ThemeLight {
		t.Fatalf("theme = %q, want %q", value, ThemeLight)
	}
}

func TestThemeDefaultsToLight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemory()

	if got := Theme(ctx, store); got != ThemeLight {
		t.Fatalf("default theme = %q, want %q", got, ThemeLight)
	}

	if err := store.Set(ctx, KeyTheme, "solarized"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := Theme(ctx, store); got != ThemeLight {
		t.Fatalf("invalid stored theme = %q, want fallback %q", got, ThemeLight)
	}

	if err := store.Set(ctx, KeyTheme, ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := Theme(ctx, store); got != ThemeDark {
		t.Fatalf("theme = %q, want %q", got, ThemeDark)
	}
}
