// Package config provides centralized configuration management for wbreport.
// It loads settings from several sources, validates them and exposes a typed
// Config to the CLI and the HTTP server.
//
// # Configuration Sources
//
// Sources are applied in order, later ones overriding earlier ones:
//
//	1. Built-in defaults (Default)
//	2. A YAML file: $WBR_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. A .env file in the working directory
//	4. Process environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern WBR_<SECTION>_<FIELD>:
//
//	WBR_SERVER_PORT=8080
//	WBR_LOGGING_LEVEL=debug
//	WBR_ANALYSIS_PAYABLE_POLICY=all_fees
//	WBR_ANALYSIS_ENABLE_REGIONAL=false
//	WBR_UPLOAD_MAX_BYTES=134217728
//
// # Validation
//
// Struct constraints are checked with go-playground/validator. An invalid
// payable policy, port or log level makes Load fail.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests should start from config.Default() and override fields directly.
package config
