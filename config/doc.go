// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A .env file and the process environment overlay the deployment-specific
// settings (database DSN, NATS URL, metrics address).
package config
