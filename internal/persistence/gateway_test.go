package persistence

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/starford/chainscope/internal/apperr"
	"github.com/starford/chainscope/internal/dataset"
	"github.com/starford/chainscope/internal/storage"
)

func newGateway(t *testing.T) (*Gateway, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return NewGateway(mem, "", nil), mem
}

func TestLoad_EmptySlotReturnsDefaults(t *testing.T) {
	g, _ := newGateway(t)
	ds := g.Load()
	if !reflect.DeepEqual(ds, dataset.Defaults()) {
		t.Error("empty slot should load the defaults")
	}
}

func TestLoad_CorruptSlotReturnsDefaults(t *testing.T) {
	g, mem := newGateway(t)
	_ = mem.Set(DefaultKey, []byte("{not json"))
	if got := g.Load(); len(got.Nodes) != 14 || len(got.Flows) != 16 {
		t.Errorf("corrupt slot loaded %d nodes, %d flows", len(got.Nodes), len(got.Flows))
	}

	_ = mem.Set(DefaultKey, []byte(`{"flows":[]}`))
	if got := g.Load(); len(got.Nodes) != 14 {
		t.Error("slot missing nodes should load the defaults")
	}
}

func TestRead_NoFallback(t *testing.T) {
	g, mem := newGateway(t)
	if _, err := g.Read(); !errors.Is(err, storage.ErrEmpty) {
		t.Errorf("empty slot err = %v, want ErrEmpty", err)
	}

	_ = mem.Set(DefaultKey, []byte(`{"nodes":[`))
	if ds, err := g.Read(); !errors.Is(err, apperr.ErrMalformedImport) || ds != nil {
		t.Errorf("truncated slot = %v, %v", ds, err)
	}

	_ = mem.Set(DefaultKey, []byte(`{"nodes":[]}`))
	if _, err := g.Read(); !errors.Is(err, apperr.ErrMissingRequiredField) {
		t.Errorf("missing flows err = %v", err)
	}

	want, _ := dataset.DeleteNode(dataset.Defaults(), "rdc2")
	_ = g.Save(want)
	got, err := g.Read()
	if err != nil || !reflect.DeepEqual(got, want) {
		t.Errorf("Read after Save: err = %v", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	g, _ := newGateway(t)
	ds, err := dataset.DeleteNode(dataset.Defaults(), "ndc1")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Save(ds); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := g.Load()
	if !reflect.DeepEqual(got, ds) {
		t.Error("loaded dataset differs from saved one")
	}
}

func TestSave_Failure(t *testing.T) {
	g, mem := newGateway(t)
	mem.FailWrites = errors.New("quota exceeded")
	err := g.Save(dataset.Defaults())
	if !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Errorf("err = %v, want ErrStorageUnavailable", err)
	}
}

func TestResetToDefaultsIsIndependent(t *testing.T) {
	g, _ := newGateway(t)
	a := g.ResetToDefaults()
	a.Nodes[0].Name = "changed"
	if g.ResetToDefaults().Nodes[0].Name == "changed" {
		t.Error("reset copies must not share state")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ds := dataset.Defaults()
	text, err := ExportText(ds)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "\n  \"nodes\": [") {
		t.Errorf("export is not two-space indented:\n%.80s", text)
	}
	got, err := ImportText(text)
	if err != nil {
		t.Fatalf("ImportText: %v", err)
	}
	if !reflect.DeepEqual(got, ds) {
		t.Error("round trip changed the dataset")
	}
	again, _ := ExportText(got)
	if again != text {
		t.Error("second export differs from the first")
	}
}

func TestImportText_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"malformed", "{not json", apperr.ErrMalformedImport},
		{"empty", "", apperr.ErrMalformedImport},
		{"missing flows", `{"nodes":[]}`, apperr.ErrMissingRequiredField},
		{"null nodes", `{"nodes":null,"flows":[]}`, apperr.ErrMissingRequiredField},
		{"array", `[1,2]`, apperr.ErrMissingRequiredField},
		{"null", `null`, apperr.ErrMissingRequiredField},
		{"wrong type", `{"nodes":"x","flows":[]}`, apperr.ErrInvalidDataset},
		{"dangling", `{"nodes":[],"flows":[{"id":"f1","from":"a","to":"b","type":"transfer","temp":"ambient"}]}`, apperr.ErrDanglingReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportText(tc.text)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestImportText_OptionalCollections(t *testing.T) {
	ds, err := ImportText(`{"nodes":[],"flows":[]}`)
	if err != nil {
		t.Fatalf("ImportText: %v", err)
	}
	if ds.BusinessProcesses == nil || ds.Teams == nil {
		t.Error("absent collections should decode to empty maps")
	}
	if len(ds.Nodes) != 0 || len(ds.Flows) != 0 {
		t.Errorf("unexpected content: %+v", ds)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	if got := ExportFilename(now); got != "supply-chain-data-2024-03-07.json" {
		t.Errorf("filename = %q", got)
	}
}
