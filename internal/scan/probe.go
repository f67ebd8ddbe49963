package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// Request is one unit of work: a directory to probe and the device of the scan root.
type Request struct {
	// Path is the absolute directory path.
	Path string
	// Device is the root device id, captured once per scan.
	Device uint64
}

// Result is the outcome of probing one directory.
// Err is nil for a successful probe.
type Result struct {
	// Path is the probed directory.
	Path string
	// OwnSize is the byte sum of non-directory, non-symlink entries directly in Path.
	OwnSize int64
	// ChildDirs are the immediate subdirectories on the same device.
	ChildDirs []string
	// StatErrors are the entries that contributed 0 because they could not be stat'ed.
	StatErrors []*Error
	// Err is set when Path could not be listed.
	Err *Error
}

// Ok reports whether the directory was listed.
func (r Result) Ok() bool {
	return r.Err == nil
}

// Prober lists a single directory. It never recurses and keeps no state
// between calls, so one Prober can be shared by any number of workers.
type Prober struct {
	// ReadDir lists a directory. Defaults to os.ReadDir.
	ReadDir func(name string) ([]fs.DirEntry, error)
	// DeviceOf extracts the device id from lstat info. Defaults to the platform implementation.
	DeviceOf func(info fs.FileInfo) (uint64, bool)
}

// Probe lists req.Path and classifies its entries.
//
// Symlinks are skipped. Directories on req.Device become children. Everything else,
// including directories mounted from another device, adds its size to OwnSize.
func (p *Prober) Probe(req Request) Result {
	readDir := os.ReadDir
	if p != nil && p.ReadDir != nil {
		readDir = p.ReadDir
	}

	devOf := deviceOf
	if p != nil && p.DeviceOf != nil {
		devOf = p.DeviceOf
	}

	result := Result{Path: req.Path}

	entries, err := readDir(req.Path)
	if err != nil {
		result.Err = listError(req.Path, err)

		return result
	}

	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			result.StatErrors = append(result.StatErrors, &Error{
				Kind: KindStatFailed,
				Path: filepath.Join(req.Path, entry.Name()),
				Err:  err,
			})

			continue
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			continue
		}

		if info.IsDir() {
			dev, ok := devOf(info)
			if !ok || dev == req.Device {
				result.ChildDirs = append(result.ChildDirs, filepath.Join(req.Path, entry.Name()))

				continue
			}
		}

		result.OwnSize += info.Size()
	}

	return result
}

// listError classifies a failure to list a directory.
func listError(path string, err error) *Error {
	kind := KindListFailed
	if errors.Is(err, syscall.ENOTDIR) {
		kind = KindNotADirectory
	}

	return &Error{Kind: kind, Path: path, Err: err}
}
