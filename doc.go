// FILE: lixenwraith/confmgr/doc.go

// Package confmgr loads key/value configuration from ordered locations such as
// bundled resources and local files, in properties, YAML, TOML or JSON format,
// and merges it into one flat stream of entries.
//
// A location is written <scheme>://<host><path>. The scheme selects a provider:
//   - classpath: resources bundled with the application (an fs.FS, usually embed.FS).
//     A missing resource contributes no entries.
//   - file: the local filesystem (or any afero.Fs). A missing file is an error.
//
// The path suffix selects a codec: .properties, .yaml/.yml, .toml/.tml, .json.
// Both are resolved before any I/O happens.
//
// Structured documents are flattened to dotted keys. Lists become indexed keys
// plus a length helper:
//
//	db:
//	  hosts: [a, b]
//
// yields db.hosts[0]=a, db.hosts[1]=b and db.hosts.length=2. Writing entries
// back rebuilds the nesting, with the length helper deciding the list size.
//
// Quick Start:
//
//	//go:embed defaults.yaml
//	var bundle embed.FS
//
//	m, err := confmgr.NewBuilder().
//	    WithBundle(bundle).
//	    WithLocations("classpath://defaults.yaml", "file:///etc/myapp/app.properties").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entries, err := m.Stream()            // merged, last location wins
//	port, err := entries.Int64("server.port")
//
//	var cfg AppConfig
//	err = m.Unmarshal(&cfg)               // decode into a struct
//	err = m.Load(confmgr.EnvSink("MYAPP_")) // publish as environment variables
//
// A Manager is immutable once built and safe for concurrent use.
package confmgr
