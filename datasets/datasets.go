// Package datasets loads training samples from disk in the tree form the
// transforms package consumes.
package datasets

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Register the remaining decoders behind image.Decode.
	_ "github.com/chai2010/webp"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/transforms"
)

// Dataset is an indexed collection of samples. Sample returns a tree of
// map/slice containers with transformable leaves.
type Dataset interface {
	Len() int
	Sample(i int) (interface{}, error)
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

type folderEntry struct {
	path  string
	label int
}

// ImageFolder reads a directory laid out class-per-subdirectory, the class
// index given by the sorted subdirectory order. Each sample is a map with an
// "image" leaf and a "label" payload.
type ImageFolder struct {
	classes   []string
	entries   []folderEntry
	transform transforms.Transform
	logger    golog.Logger
}

// NewImageFolder scans root. A nil transform loads samples as decoded.
// Unreadable class directories are reported together after the scan; files
// without a known image extension are skipped with a log line.
func NewImageFolder(root string, transform transforms.Transform, logger golog.Logger) (*ImageFolder, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot scan dataset root %q", root)
	}
	f := &ImageFolder{transform: transform, logger: logger}
	for _, d := range dirs {
		if d.IsDir() {
			f.classes = append(f.classes, d.Name())
		}
	}
	sort.Strings(f.classes)
	if len(f.classes) == 0 {
		return nil, errors.Errorf("dataset root %q has no class directories", root)
	}

	var scanErr error
	for label, class := range f.classes {
		files, err := os.ReadDir(filepath.Join(root, class))
		if err != nil {
			scanErr = multierr.Combine(scanErr, errors.Wrapf(err, "class %q", class))
			continue
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(file.Name()))] {
				logger.Debugw("skipping non-image file", "class", class, "file", file.Name())
				continue
			}
			f.entries = append(f.entries, folderEntry{
				path:  filepath.Join(root, class, file.Name()),
				label: label,
			})
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return f, nil
}

// Classes returns the sorted class names; a sample's label indexes into it.
func (f *ImageFolder) Classes() []string { return f.classes }

// Len returns the number of image files found.
func (f *ImageFolder) Len() int { return len(f.entries) }

// Sample loads, decodes and transforms the i-th image.
func (f *ImageFolder) Sample(i int) (interface{}, error) {
	if i < 0 || i >= len(f.entries) {
		return nil, errors.Errorf("sample index %d out of range [0, %d)", i, len(f.entries))
	}
	entry := f.entries[i]
	file, err := os.Open(entry.path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %q", entry.path)
	}
	defer func() {
		if err := file.Close(); err != nil {
			f.logger.Errorw("error closing image file", "path", entry.path, "error", err)
		}
	}()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode %q", entry.path)
	}
	img, err := datapoint.FromGoImage(decoded)
	if err != nil {
		return nil, err
	}

	s := map[string]interface{}{
		"image": img,
		"label": entry.label,
	}
	if f.transform == nil {
		return s, nil
	}
	return f.transform.Apply(s)
}
