// Package config handles loading and validating switchhook configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields and switch definitions
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (JWT secret, MQTT password) should be set via
//     environment variables
//   - The config file should have restricted permissions (0600)
//   - The JWT secret must be at least 32 characters
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
