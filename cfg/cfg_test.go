package cfg_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mc "github.com/wecisecode/datastructures/cfg"
	"github.com/wecisecode/datastructures/merrs"
)

var iniText = `
name=demo
[log]
level=debug
console=true
[server]
port=8080
allow=127.0.0.1
allow=10.0.0.1
timeout=1500
`

func TestIniText(t *testing.T) {
	cfg, err := mc.NewConfig(&mc.CfgOption{Name: "m:default", Type: mc.INI_TEXT, Values: []string{iniText}})
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.GetString("name"))
	assert.Equal(t, "debug", cfg.GetString("log.level"))
	assert.True(t, cfg.GetBool("log.console"))
	assert.Equal(t, 8080, cfg.GetInt("server.port"))
	assert.Equal(t, []string{"127.0.0.1", "10.0.0.1"}, cfg.GetStrings("server.allow"))
	assert.Equal(t, "10.0.0.1", cfg.GetString("server.allow"))
	assert.Equal(t, 1500*time.Millisecond, cfg.GetDuration("server.timeout"))
	assert.Equal(t, []string{"name", "log.level", "log.console", "server.port", "server.allow", "server.timeout"}, cfg.Keys())
}

func TestDefaults(t *testing.T) {
	cfg := mc.MConfig(&mc.CfgOption{Name: "m:default", Type: mc.INI_TEXT, Values: []string{iniText}})
	assert.Equal(t, "x", cfg.GetString("missing", "x"))
	assert.Equal(t, 3, cfg.GetInt("missing", 3))
	assert.Equal(t, 2.5, cfg.GetFloat("missing", 2.5))
	assert.True(t, cfg.GetBool("missing", true))
	assert.Equal(t, 2*time.Second, cfg.GetDuration("missing", 2*time.Second))
	assert.Equal(t, 36*time.Hour, cfg.GetDuration("missing", "1.5d"))
	assert.Equal(t, "debug", cfg.GetString("missing|log.level"))
	assert.Nil(t, cfg.Get("missing"))
	assert.Equal(t, 7, cfg.Get("missing", 7))
}

func TestLayersLaterWins(t *testing.T) {
	cfg := mc.MConfig(
		&mc.CfgOption{Name: "m:ini", Type: mc.INI_TEXT, Values: []string{iniText}},
		&mc.CfgOption{Name: "m:yaml", Type: mc.YAML_TEXT, Values: []string{`
log:
  level: warn
server:
  port: 9090
  hosts:
    - name: a
    - name: b
`}},
		&mc.CfgOption{Name: "m:json", Type: mc.JSON_TEXT, Values: []string{`{"log":{"color":false},"ratio":0.75}`}},
		&mc.CfgOption{Name: "m:args", Type: mc.KVS_TEXT, Values: []string{"--server.port=10000", "verbose"}},
	)
	assert.Equal(t, "warn", cfg.GetString("log.level"))
	assert.Equal(t, []string{"debug", "warn"}, cfg.GetStrings("log.level"))
	assert.Equal(t, 10000, cfg.GetInt("server.port"))
	assert.Equal(t, []string{"a", "b"}, cfg.GetStrings("server.hosts.name"))
	assert.False(t, cfg.GetBool("log.color", true))
	assert.Equal(t, 0.75, cfg.GetFloat("ratio"))
	assert.Equal(t, "verbose", cfg.GetString("verbose"))

	cfg.Set("log.level", "error")
	assert.Equal(t, "error", cfg.GetString("log.level"))
	assert.Equal(t, "error", cfg.Map()["log.level"])
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	yamlfile := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(yamlfile, []byte("db:\n  host: localhost\n  port: 5432\n"), 0o644))

	cfg, err := mc.NewConfig(
		&mc.CfgOption{Name: "m:file", Type: mc.YAML_FILE, Values: []string{yamlfile}},
		mc.GetIniFileCfgOption(filepath.Join(dir, "missing.conf")),
	)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.GetString("db.host"))
	assert.Equal(t, 5432, cfg.GetInt("db.port"))

	require.NoError(t, os.WriteFile(yamlfile, []byte("db:\n  host: db.internal\n"), 0o644))
	changed := 0
	id := cfg.OnChange(func() { changed++ })
	assert.Equal(t, 1, changed)
	require.NoError(t, cfg.Reload())
	assert.Equal(t, 2, changed)
	assert.Equal(t, "db.internal", cfg.GetString("db.host"))
	assert.Equal(t, 0, cfg.GetInt("db.port"))

	cfg.RemoveChangeHandler(id)
	cfg.Set("db.port", 1)
	assert.Equal(t, 2, changed)
}

func TestParseError(t *testing.T) {
	_, err := mc.NewConfig(&mc.CfgOption{Name: "m:json", Type: mc.JSON_TEXT, Values: []string{`{"a":`}})
	require.Error(t, err)
	assert.True(t, merrs.ErrParser.Contains(err))

	_, err = mc.NewConfig(&mc.CfgOption{Name: "m:yaml", Type: mc.YAML_TEXT, Values: []string{"- a\n- b\n"}})
	require.Error(t, err)
	assert.True(t, merrs.ErrFormat.Contains(err))

	// MConfig keeps going with an empty layer
	cfg := mc.MConfig(&mc.CfgOption{Name: "m:json", Type: mc.JSON_TEXT, Values: []string{`[1]`}})
	assert.Empty(t, cfg.Keys())
}

func TestInfo(t *testing.T) {
	cfg := mc.MConfig(&mc.CfgOption{Name: "m:json", Type: mc.JSON_TEXT, Values: []string{`{"b": 1, "a": {"c": "x"}}`}})
	info := cfg.Info()
	assert.Contains(t, info, `"time"`)
	assert.Less(t, strings.Index(info, `"b"`), strings.Index(info, `"a.c"`))
	c := cfg.Collection()
	assert.Equal(t, 2, c.Len())
}

