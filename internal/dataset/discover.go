package dataset

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pkg/errors"
)

var dataFileRegexp = regexp.MustCompile(`^(training|validation|all_data)\.txt$`)

// Files names the conventional dataset files of a data directory.
type Files struct {
	Training   string
	Validation string
	AllData    string
}

// DiscoverFiles looks beneath root for training.txt, validation.txt and all_data.txt.
// When a name occurs more than once the lexically first path wins. Missing files are
// left empty.
func DiscoverFiles(root string) (Files, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if dataFileRegexp.MatchString(d.Name()) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return Files{}, errors.Wrap(err, "discover dataset files")
	}
	sort.Strings(matches)

	var files Files
	for _, path := range matches {
		var slot *string
		switch filepath.Base(path) {
		case "training.txt":
			slot = &files.Training
		case "validation.txt":
			slot = &files.Validation
		case "all_data.txt":
			slot = &files.AllData
		}
		if *slot == "" {
			*slot = path
		}
	}
	return files, nil
}
