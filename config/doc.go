// Package config loads pagekit configuration with Viper from YAML, JSON or
// TOML files, with environment overrides and hot reloading.
//
// Sections:
//   - logger: level, format and output of the logrus logger
//   - paging: default and maximum page sizes, jump support, first page counting
//   - sortid: identifier layout, epoch, tick unit and the local node id
//   - data: the collection store (mysql, postgres, sqlite, mongodb, pebble)
//     and the redis count cache
//   - metrics: Prometheus collector settings
//   - tracing: OTLP trace export, disabled by default
//
// # Configuration Format
//
//	app_name: pagekit
//	paging:
//	  default_size: 20
//	  max_size: 100
//	  jumps: true
//	sortid:
//	  timestamp_bits: 41
//	  node_bits: 10
//	  sequence_bits: 12
//	  epoch: 2020-01-01T00:00:00Z
//	  unit: 1ms
//	  node: 7
//	data:
//	  store: pebble
//	  pebble:
//	    path: ./data
//
// # Environment Variables
//
// Keys are overridden with the PAGEKIT prefix and underscores:
//
//	export PAGEKIT_PAGING_MAX_SIZE=50
//
// # Hot Reloading
//
//	config.Watch(func(cfg *config.Config) {
//	    // React to configuration changes
//	})
package config
