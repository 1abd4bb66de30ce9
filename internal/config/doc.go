// Package config loads TaskFlow settings from defaults, an optional
// config.yaml and TASKFLOW_* environment variables, and validates them
// before any component is built.
package config
