package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/alloclab/errs"
)

func presetFS() fstest.MapFS {
	return fstest.MapFS{
		"original.yaml": {Data: []byte("name: original\nratio: 50\ncoef: 10\ncap: 1000000\n")},
		"unit.json":     {Data: []byte(`{"name":"unit","ratio":1,"coef":1}`)},
		"README.md":     {Data: []byte("ignored")},
	}
}

func TestCatalogRegisterAndLoad(t *testing.T) {
	c, err := New(presetFS())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if files := c.Cfg().Files(); len(files) != 2 || files[0] != "original.yaml" || files[1] != "unit.json" {
		t.Fatalf("indexed files got %v", files)
	}
	err = c.Register(Entry{Name: " Unit ", ConfigName: "unit.json"}, Entry{Name: "original", ConfigName: "original.yaml"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if names := c.Names(); len(names) != 2 || names[0] != "original" || names[1] != "unit" {
		t.Fatalf("names got %v", names)
	}
	if all := c.All(); len(all) != 2 || all[1] != (Entry{Name: "unit", ConfigName: "unit.json"}) {
		t.Fatalf("entries got %v", all)
	}
	if c.IsFrozen() {
		t.Fatalf("fresh catalog reports frozen")
	}
	ps, err := c.SettingByName("UNIT")
	if err != nil {
		t.Fatalf("setting: %v", err)
	}
	if ps.Ratio != 1 || ps.Coef != 1 {
		t.Fatalf("setting got %+v", ps)
	}
	ps, err = c.SettingByName("original")
	if err != nil || ps.Cap != 1e6 {
		t.Fatalf("original got %+v, %v", ps, err)
	}
	if _, err := c.SettingByName("missing"); err == nil {
		t.Fatalf("expected error for missing problem")
	}
}

func TestCatalogRegisterRejects(t *testing.T) {
	c, err := New(presetFS())
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		ents []Entry
	}{
		{"empty name", []Entry{{Name: " ", ConfigName: "unit.json"}}},
		{"missing file", []Entry{{Name: "x", ConfigName: "x.yaml"}}},
		{"path in name", []Entry{{Name: "x", ConfigName: "dir/x.yaml"}}},
		{"wrong ext", []Entry{{Name: "x", ConfigName: "README.md"}}},
		{"dup in batch", []Entry{{Name: "a", ConfigName: "unit.json"}, {Name: "a", ConfigName: "original.yaml"}}},
		{"same file twice", []Entry{{Name: "a", ConfigName: "unit.json"}, {Name: "b", ConfigName: "unit.json"}}},
	}
	for _, tc := range cases {
		if err := c.Register(tc.ents...); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
	if len(c.Names()) != 0 {
		t.Fatalf("failed batches must not register anything, got %v", c.Names())
	}

	if err := c.Register(Entry{Name: "unit", ConfigName: "unit.json"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(Entry{Name: "unit", ConfigName: "original.yaml"}); err != ErrDupName {
		t.Fatalf("expected ErrDupName, got %v", err)
	}
	c.Freeze()
	if err := c.Register(Entry{Name: "original", ConfigName: "original.yaml"}); err == nil {
		t.Fatalf("frozen catalog accepted a registration")
	}
}

func TestCatalogSources(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error with no sources")
	}
	nested := fstest.MapFS{"sub/a.yaml": {Data: []byte("name: a\nratio: 1\ncoef: 1\n")}}
	if _, err := New(nested); err == nil {
		t.Fatalf("expected error for nested FS")
	}
	if _, err := New(presetFS(), fstest.MapFS{"unit.json": {Data: []byte("{}")}}); err == nil {
		t.Fatalf("expected duplicate config error across sources")
	}
}

func TestParseSettingInvalidProblem(t *testing.T) {
	_, err := ParseSetting("bad.yml", []byte("name: bad\nratio: 10\ncoef: 0\n"))
	if !errs.IsInvalidProblem(err) {
		t.Fatalf("expected InvalidProblem, got %v", err)
	}
	if _, err := ParseSetting("bad.toml", nil); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
