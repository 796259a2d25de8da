package config

// ServerConfig contains the HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// StoreConfig contains the Postgres row-source configuration.
type StoreConfig struct {
	DSN string `yaml:"dsn" validate:"omitempty"`
}

// AlertsConfig contains the NATS alert-publishing configuration. An empty
// URL disables publishing.
type AlertsConfig struct {
	NATSURL       string `yaml:"natsURL" validate:"omitempty"`
	SubjectPrefix string `yaml:"subjectPrefix"`
}

// MetricsConfig contains the Prometheus exposition configuration. An empty
// address disables the metrics server.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// EngineConfig contains the analytics thresholds and limits.
type EngineConfig struct {
	OverloadThreshold float64 `yaml:"overloadThreshold" validate:"gte=0"`
	IdleThreshold     float64 `yaml:"idleThreshold" validate:"gte=0"`
	ODAlertTopN       int     `yaml:"odAlertTopN" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Store   StoreConfig   `yaml:"store"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Metrics MetricsConfig `yaml:"metrics"`
	Engine  EngineConfig  `yaml:"engine"`
}
