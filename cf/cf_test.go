package cf

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

type testConfig struct {
	Size     int           `cf:"size"`
	Scale    float64       `cf:"scale"`
	Enabled  bool          `cf:"enabled"`
	Name     string        `cf:"name"`
	Timeout  time.Duration `cf:"timeout"`
	Untagged int
	hidden   int
}

func TestLoad(t *testing.T) {
	c := &testConfig{Size: 1, hidden: 7}
	d := make(map[string]interface{})
	d["size"] = 4096
	d["scale"] = 2
	d["enabled"] = true
	d["name"] = "probe"
	d["timeout"] = "250ms"
	d["Untagged"] = 3
	d["hidden"] = 99
	d["unknown"] = "ignored"
	err := Load(d, c)
	assert.NoError(t, err)
	assert.Equal(t, 4096, c.Size)
	assert.Equal(t, 2.0, c.Scale)
	assert.True(t, c.Enabled)
	assert.Equal(t, "probe", c.Name)
	assert.Equal(t, 250*time.Millisecond, c.Timeout)
	assert.Equal(t, 3, c.Untagged)
	assert.Equal(t, 7, c.hidden)
	fmt.Println(Dump("config", c))
}

func TestLoadDurationMs(t *testing.T) {
	c := &testConfig{}
	err := Load(map[string]interface{}{"timeout": 1500}, c)
	assert.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, c.Timeout)
}

func TestLoadMismatch(t *testing.T) {
	c := &testConfig{}
	err := Load(map[string]interface{}{"size": "big"}, c)
	assert.Error(t, err)
	err = Load(map[string]interface{}{"timeout": "soon"}, c)
	assert.Error(t, err)
	err = Load(map[string]interface{}{"enabled": 1}, c)
	assert.Error(t, err)
}

func TestLoadNotStruct(t *testing.T) {
	i := 0
	assert.Error(t, Load(map[string]interface{}{}, &i))
}

func TestDump(t *testing.T) {
	out := Dump("test", &testConfig{Size: 12, Name: "x"})
	assert.Contains(t, out, "test {")
	assert.Contains(t, out, "size")
	assert.Contains(t, out, "12")
	assert.NotContains(t, out, "hidden")
}

func TestSection(t *testing.T) {
	in := map[interface{}]interface{}{
		"wire": true,
		"nested": map[interface{}]interface{}{
			1: "one",
		},
		"list": []interface{}{map[interface{}]interface{}{"k": "v"}},
	}
	out, ok := Section(in)
	assert.True(t, ok)
	assert.Equal(t, true, out["wire"])
	assert.Equal(t, map[string]interface{}{"1": "one"}, out["nested"])
	assert.Equal(t, []interface{}{map[string]interface{}{"k": "v"}}, out["list"])

	_, ok = Section("wire")
	assert.False(t, ok)
}
