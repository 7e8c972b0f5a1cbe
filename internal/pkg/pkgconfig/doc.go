// Package pkgconfig loads service settings from a YAML file with environment
// overrides and exposes them through the Config interface, so modules never
// import viper directly.
package pkgconfig
