package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	var conf Conf
	conf.CreateDefault("demo")
	conf.Compiler.ClangFlags = "-O2"
	if err := conf.Save(filepath.Join(dir, ConfFileName), true); err != nil {
		t.Fatalf("saving: %v", err)
	}

	loaded, err := GetConf(dir)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Name != "demo" || loaded.Main != "src/main.sy" {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
	if loaded.Compiler.ClangFlags != "-O2" {
		t.Errorf("compiler section not preserved: %+v", loaded.Compiler)
	}
}

func TestGetConfMissing(t *testing.T) {
	if _, err := GetConf(t.TempDir()); err == nil {
		t.Fatal("expected an error for a directory without " + ConfFileName)
	}
}

func TestLoadHandwritten(t *testing.T) {
	dir := t.TempDir()
	src := `name: handwritten
version: 0.2.0
main: prog.sy
compiler:
  target: riscv32
  optimization: 1
`
	if err := os.WriteFile(filepath.Join(dir, ConfFileName), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	conf, err := GetConf(dir)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if conf.Compiler.Target != "riscv32" || conf.Compiler.OptimizationLevel != 1 {
		t.Errorf("compiler section: %+v", conf.Compiler)
	}
}
