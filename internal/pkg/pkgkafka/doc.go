// Package pkgkafka builds the franz-go client used to publish domain events.
package pkgkafka
