package config

// BasicService is a simple on/off network service with a bind address,
// used for Prometheus monitoring (spec §6 "Prometheus metrics"), following
// the teacher's pkg/config/basic_service.go.
type BasicService struct {
	Enabled bool   `yaml:"Enabled"`
	Address string `yaml:"Address"`
}
