// Package pkgconfig exposes configuration through the small Config interface
// so modules can be tested with fakes. Viper backs it in production: values
// come from a YAML file and any key can be overridden by a GOTASK_* variable.
package pkgconfig
