// FILE: lixenwraith/confmgr/example/main.go
package main

import (
	"embed"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/confmgr"
)

//go:embed defaults.yaml
var bundle embed.FS

// AppConfig is decoded from the merged configuration.
type AppConfig struct {
	Server struct {
		Host    string        `config:"host"`
		Port    int           `config:"port"`
		Timeout time.Duration `config:"timeout"`
	} `config:"server"`
	Backends     []string        `config:"backends"`
	FeatureFlags map[string]bool `config:"feature_flags"`
}

func main() {
	dir, err := os.MkdirTemp("", "confmgr-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// A local override file written with the library itself
	overridePath := filepath.Join(dir, "override.properties")
	writer := confmgr.NewBuilder().MustBuild()
	err = writer.Write(confmgr.FileLocation(overridePath), []confmgr.Entry{
		confmgr.NewEntry("server.port", "9090"),
		confmgr.NewEntry("feature_flags.caching", "true"),
	})
	if err != nil {
		log.Fatal("Failed to write override:", err)
	}

	m, err := confmgr.NewBuilder().
		WithBundle(bundle).
		WithLocation(
			confmgr.BundleLocation("defaults.yaml"),
			confmgr.BundleLocation("optional.yaml"), // not bundled, contributes nothing
			confmgr.FileLocation(overridePath),
		).
		WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))).
		Build()
	if err != nil {
		log.Fatal("Failed to build config manager:", err)
	}

	entries, err := m.Stream()
	if err != nil {
		log.Fatal("Failed to read config:", err)
	}
	fmt.Println("Merged entries:")
	for _, e := range entries {
		fmt.Println(" ", e)
	}

	var cfg AppConfig
	if err := m.Unmarshal(&cfg); err != nil {
		log.Fatal("Failed to decode config:", err)
	}
	fmt.Printf("Server: %s:%d (timeout %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.Timeout)
	fmt.Printf("Backends: %v\n", cfg.Backends)
	fmt.Printf("Feature flags: %v\n", cfg.FeatureFlags)

	fmt.Println("As YAML:")
	if err := m.Dump(os.Stdout, confmgr.YAMLCodec); err != nil {
		log.Fatal(err)
	}
}
