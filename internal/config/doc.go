// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

/*
Package config loads and validates the Cartsense service configuration.

# Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file, from CONFIG_PATH or the first of DefaultConfigPaths
 3. Environment variables

Only environment variables listed in the mapping table are read, so an
unrelated PORT-like variable in a container cannot change an unexpected
setting. Comma separated values (CORS_ORIGINS) are split into slices.

# Example YAML

	server:
	  port: 8080
	  environment: production
	security:
	  cors_origins: ["https://shop.example.com"]
	enrich:
	  mode: direct
	recommend:
	  catalog_path: /etc/cartsense/catalog.json
	events:
	  backend: nats
	  nats_url: nats://nats:4222

# Common Environment Variables

  - API_KEY or GEMINI_API_KEY: provider key; without it the analyze
    endpoint answers 500 CONFIG_ERROR and orchestrators stay on rules
  - ENRICH_MODE: direct, remote or disabled
  - CATALOG_PATH: JSON catalog replacing the embedded one
  - CORS_ORIGINS: comma separated allow-list, * for any origin
  - EVENTS_BACKEND and NATS_URL: state fan-out between replicas
  - LOG_LEVEL and LOG_FORMAT

Load validates the final configuration and reports the first invalid field
by its environment variable name where one exists.
*/
package config
