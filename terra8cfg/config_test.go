package terra8cfg

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "terra8cfg")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	os.Setenv("TERRA8_TEST_DIR", dir)
	defer os.Unsetenv("TERRA8_TEST_DIR")

	tomlSrc := `
DirectionFile = "$TERRA8_TEST_DIR/dir.asc"
ElevationFile = "$TERRA8_TEST_DIR/elev.asc"
OutputFile = "$TERRA8_TEST_DIR/out.asc"
ZScale = 1.5
Expr = "spi + 0.5*slope_percent"

[UpslopeTrace]
X0 = 1
Y0 = 2
X1 = 3
Y1 = 4
`
	cfgPath := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(cfgPath, []byte(tomlSrc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfigFile(cfgPath, nil)
	if err != nil {
		t.Fatalf("ReadConfigFile: %v", err)
	}
	if cfg.DirectionFile != dir+"/dir.asc" {
		t.Errorf("DirectionFile = %q, want expanded path", cfg.DirectionFile)
	}
	if cfg.ZScale != 1.5 {
		t.Errorf("ZScale = %v, want 1.5", cfg.ZScale)
	}
	if cfg.UpslopeTrace.X1 != 3 {
		t.Errorf("UpslopeTrace.X1 = %v, want 3", cfg.UpslopeTrace.X1)
	}
}

func TestReadConfigFileMissing(t *testing.T) {
	if _, err := ReadConfigFile("/nonexistent/path/config.toml", nil); err == nil {
		t.Fatal("expected an error for a missing configuration file")
	}
}
