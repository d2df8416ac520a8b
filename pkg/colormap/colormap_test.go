package colormap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/landforge/pkg/errors"
)

func TestDefault(t *testing.T) {
	cm := Default()
	tests := []struct {
		elevation float64
		want      [3]uint8
	}{
		{0, [3]uint8{0, 0, 0}},
		{100, [3]uint8{255, 255, 255}},
		{50, [3]uint8{127, 127, 127}},
		{25, [3]uint8{63, 63, 63}},
		{-10, [3]uint8{0, 0, 0}},
		{-1e9, [3]uint8{0, 0, 0}},
		{100.5, [3]uint8{255, 255, 255}},
		{1e9, [3]uint8{255, 255, 255}},
	}
	for _, tt := range tests {
		if got := cm.Color(tt.elevation); got != tt.want {
			t.Errorf("Color(%v) = %v, want %v", tt.elevation, got, tt.want)
		}
	}
}

func TestColorPerChannel(t *testing.T) {
	cm, err := New([]Entry{
		{Color: [3]uint8{200, 0, 100}, Elevation: 10},
		{Color: [3]uint8{0, 200, 100}, Elevation: 20},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := cm.Color(15), [3]uint8{100, 100, 100}; got != want {
		t.Errorf("Color(15) = %v, want %v", got, want)
	}
	if got, want := cm.Color(12.5), [3]uint8{150, 50, 100}; got != want {
		t.Errorf("Color(12.5) = %v, want %v", got, want)
	}
}

func TestNewSortsEntries(t *testing.T) {
	unsorted := []Entry{
		{Color: [3]uint8{255, 255, 255}, Elevation: 100},
		{Color: [3]uint8{0, 0, 0}, Elevation: 0},
		{Color: [3]uint8{255, 0, 0}, Elevation: 50},
	}
	cm, err := New(unsorted)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries := cm.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Elevation < entries[i-1].Elevation {
			t.Fatalf("entries not sorted: %+v", entries)
		}
	}
	if got, want := cm.Color(25), [3]uint8{127, 0, 0}; got != want {
		t.Errorf("Color(25) = %v, want %v", got, want)
	}
	// The input slice is left alone.
	if unsorted[0].Elevation != 100 {
		t.Error("New modified its input")
	}
}

func TestSingleEntry(t *testing.T) {
	cm, err := New([]Entry{{Color: [3]uint8{1, 2, 3}, Elevation: 5}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, e := range []float64{-1, 5, 10} {
		if got := cm.Color(e); got != [3]uint8{1, 2, 3} {
			t.Errorf("Color(%v) = %v", e, got)
		}
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, errors.ErrCodeInvalidColormap) {
		t.Errorf("New(nil) error = %v, want INVALID_COLORMAP", err)
	}
	if _, err := Parse([]byte("[]")); !errors.Is(err, errors.ErrCodeInvalidColormap) {
		t.Errorf("Parse([]) error = %v, want INVALID_COLORMAP", err)
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `[{"color":[0,0,0],"elevation":0},{"color":[10,20,30],"elevation":1}]`, false},
		{"not json", `colors`, true},
		{"object", `{"color":[0,0,0],"elevation":0}`, true},
		{"channel overflow", `[{"color":[256,0,0],"elevation":0}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidColormap) {
				t.Errorf("Read() error code = %v, want INVALID_COLORMAP", errors.GetCode(err))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	data, _ := json.Marshal([]Entry{
		{Color: [3]uint8{0, 0, 255}, Elevation: 0},
		{Color: [3]uint8{0, 255, 0}, Elevation: 10},
	})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cm.Len() != 2 {
		t.Errorf("Len = %d, want 2", cm.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeInvalidColormap) {
		t.Errorf("Load(missing) error = %v, want INVALID_COLORMAP", err)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"color":[0,0,0],"elevation":0},{"color":[255,255,255],"elevation":100}]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
