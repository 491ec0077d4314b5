// Package config manages user-level settings stored at ~/.debloat/config.yaml.
// Values resolve in viper's usual order: bound flags, DEBLOAT_* environment
// variables, the config file, then the defaults registered here.
package config
