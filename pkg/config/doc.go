// Package config provides configuration management for querygate.
//
// Configuration is loaded from YAML with environment variable overrides.
// Every field has a default, so a file only lists what it changes.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention QUERYGATE_SECTION_FIELD:
//
//   - QUERYGATE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - QUERYGATE_CATALOG_PATH overrides catalog.path
//   - QUERYGATE_STORE_DRIVER overrides store.driver
//   - QUERYGATE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//	limits:
//	  max_filter_length: 2000
//	catalog:
//	  path: "/etc/querygate/catalog.yaml"
//	  watch: true
//	store:
//	  driver: "sqlite"
//	  dsn: "/var/lib/querygate/data.db"
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
