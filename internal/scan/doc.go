// Package scan computes the own size of every directory below a root.
//
// A fixed pool of workers probes one directory at a time and hands the result back
// to a single coordinator, which owns the result map and the pending-work counter and
// submits every newly discovered subdirectory. The scan ends when every submitted
// probe has completed.
package scan
