package dataset

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sample = `5.1,3.5,1.4,0.2,Iris-setosa
7.0,3.2,4.7,1.4,Iris-versicolor

6.3,3.3,6.0,2.5,Iris-virginica
`

func TestParseEntry(t *testing.T) {
	ex, err := ParseEntry(" 5.1, 3.5,1.4,0.2,Iris-setosa ")
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if !reflect.DeepEqual(ex.Attributes, []float64{5.1, 3.5, 1.4, 0.2}) {
		t.Fatalf("unexpected attributes %v", ex.Attributes)
	}
	if ex.Label != "Iris-setosa" {
		t.Fatalf("unexpected label %q", ex.Label)
	}

	unlabeled, err := ParseEntry("5.1,3.5,1.4,0.2")
	if err != nil {
		t.Fatalf("ParseEntry unlabeled: %v", err)
	}
	if unlabeled.Label != "" {
		t.Fatalf("expected empty label, got %q", unlabeled.Label)
	}

	for _, bad := range []string{"", "1,2,3", "1,2,3,x,Iris-setosa", "1,2,3,4,5,6"} {
		if _, err := ParseEntry(bad); !errors.Is(err, ErrMalformedEntry) {
			t.Fatalf("ParseEntry(%q): expected ErrMalformedEntry, got %v", bad, err)
		}
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	examples, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(examples) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(examples))
	}
	if examples[2].Label != "Iris-virginica" {
		t.Fatalf("unexpected label %q", examples[2].Label)
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("5.1,3.5,1.4,0.2,Iris-setosa\nbroken\n"))
	if !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected ErrMalformedEntry, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in %q", err.Error())
	}
}

func TestLoadRawShuffleDeterministic(t *testing.T) {
	path := mustWrite(t, sample)

	ordered, err := LoadRaw(path, nil)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if ordered[0].Label != "Iris-setosa" {
		t.Fatalf("expected file order without rng, got %q first", ordered[0].Label)
	}

	first, err := LoadRaw(path, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	second, err := LoadRaw(path, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("shuffle not deterministic: %v vs %v", first, second)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadRaw(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := mustWrite(t, sample)
	norm := Normalizer{Maxima: []float64{7.0, 3.5, 6.0, 2.5}}
	examples, err := Load(path, norm, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, ex := range examples {
		for _, v := range ex.Attributes {
			if v < -3 || v > 3 {
				t.Fatalf("attribute %v outside [-3, 3]", v)
			}
		}
	}
	if examples[1].Attributes[0] != 3 {
		t.Fatalf("column maximum should map to 3, got %v", examples[1].Attributes[0])
	}
}

func mustWrite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
