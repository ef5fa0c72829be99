package reinvent

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return dir
}

func TestLoadEnvelope(t *testing.T) {
	dir := writeCatalog(t, "reinvent.json", `{"catalog": [{"id": "a", "title": "One"}]}`)
	sessions, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "a" {
		t.Fatalf("sessions = %+v, want one record", sessions)
	}
}

func TestLoadBareArray(t *testing.T) {
	dir := writeCatalog(t, "reinvent.json", `[{"id": "a", "title": "One"}, {"id": "b", "title": "Two"}]`)
	sessions, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
}

func TestLoadAlternateCasing(t *testing.T) {
	for _, name := range []string{"Reinvent.json", "ReInvent.json"} {
		dir := writeCatalog(t, name, `{"catalog": []}`)
		if _, err := Load(dir); err != nil {
			t.Errorf("load %s: %v", name, err)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("err = %v, want ErrCatalogNotFound", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := writeCatalog(t, "reinvent.json", `{"nope": true}`)
	_, err := Load(dir)
	if !errors.Is(err, ErrCatalogInvalid) {
		t.Fatalf("err = %v, want ErrCatalogInvalid", err)
	}
}

func TestRefDisplay(t *testing.T) {
	if got := (Ref{DisplayName: "A", DisplayValue: "B"}).Display(); got != "A" {
		t.Errorf("display = %q, want displayName preferred", got)
	}
	if got := (Ref{DisplayValue: "B"}).Display(); got != "B" {
		t.Errorf("display = %q, want displayValue fallback", got)
	}
}
