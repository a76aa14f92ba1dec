package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgsizer/pkg/cache"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	if c.Logger == nil {
		t.Fatal("New() should set a logger")
	}

	c.Logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("logger should write to the given writer")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should pass after SetLogLevel")
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, log.InfoLevel).RootCommand()

	want := map[string]bool{
		"scan":         false,
		"why":          false,
		"unused":       false,
		"alternatives": false,
		"compare":      false,
		"updates":      false,
		"report":       false,
		"cache":        false,
		"completion":   false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewCacheDisabled(t *testing.T) {
	c := newCache(context.Background(), true, "")
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("noCache should yield a NullCache, got %T", c)
	}
}
