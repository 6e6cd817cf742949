package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog fixture: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeCatalog(t, `
stations:
  - code: "1012110"
    name: 소양강댐
    region: 춘천
    type: dam
    keywords: [소양강, 춘천, 소양강]
    agency: 한국수자원공사
  - code: "5002201"
    name: 평림댐
    region: 장성군
    type: waterlevel
    keywords: [평림, 댐]
`)

	cat, err := NewLoader(path, logger.NewNop()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}

	soyang, ok := cat.FindByCode("1012110")
	if !ok {
		t.Fatal("FindByCode(1012110) not found")
	}
	if soyang.Type != domain.TypeDam {
		t.Errorf("Type = %q, want %q", soyang.Type, domain.TypeDam)
	}
	if len(soyang.Keywords) != 2 {
		t.Errorf("Keywords = %v, want deduplicated pair", soyang.Keywords)
	}
}

func TestLoaderSkipsMalformedEntries(t *testing.T) {
	path := writeCatalog(t, `
stations:
  - code: ""
    name: 이름만있음
    type: dam
  - code: "9999"
    name: 타입오류
    type: volcano
  - code: "3008110"
    name: 대청댐
    region: 대전
    type: dam
    keywords: [대청]
`)

	cat, err := NewLoader(path, logger.NewNop()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (malformed entries skipped)", cat.Len())
	}
	if _, ok := cat.FindByCode("3008110"); !ok {
		t.Error("valid entry should survive malformed siblings")
	}
}

func TestLoaderOptionalFieldsDegrade(t *testing.T) {
	path := writeCatalog(t, `
stations:
  - code: "2009540"
    name: 낙동강(구미)
    type: waterlevel
`)

	cat, err := NewLoader(path, logger.NewNop()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st, _ := cat.FindByCode("2009540")
	if st.Region != "" || st.Agency != "" || st.Keywords != nil {
		t.Errorf("optional fields should default to empty, got %+v", st)
	}
}

func TestLoaderEmptyCatalogFails(t *testing.T) {
	path := writeCatalog(t, `stations: []`)

	if _, err := NewLoader(path, logger.NewNop()).Load(); err == nil {
		t.Fatal("Load() of an empty catalog should fail")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "none.yaml"), logger.NewNop()).Load(); err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
}
