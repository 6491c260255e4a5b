// Package pkgmetrics exposes application metrics in Prometheus format.
package pkgmetrics
