// Package report turns a finished scan into a ranked list of directories and renders it.
package report
