package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

// timestampLayout renders fetch times as ddmmyyyyHHMMSS.
const timestampLayout = "02012006150405"

// fileRe matches names produced by Save, e.g. "vhi_id_7_16102026120000.csv".
var fileRe = regexp.MustCompile(`^vhi_id_(\d+)_(\d{14})\.csv$`)

// Dir is the local directory holding one raw export per province.
// It implements ingest.Workspace.
type Dir struct {
	root  string
	clock clockwork.Clock
}

// New creates a workspace rooted at root. Pass a nil clock for real time.
func New(root string, clock clockwork.Clock) *Dir {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Dir{root: root, clock: clock}
}

// Root returns the workspace directory.
func (d *Dir) Root() string { return d.root }

// Reset removes the workspace and everything in it, then recreates it empty.
func (d *Dir) Reset() error {
	if err := os.RemoveAll(d.root); err != nil {
		return fmt.Errorf("clear workspace %s: %w", d.root, err)
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create workspace %s: %w", d.root, err)
	}
	return nil
}

// Save writes a raw export verbatim under a name carrying the province id
// and the fetch time.
func (d *Dir) Save(provinceID int, body []byte) (string, error) {
	name := fmt.Sprintf("vhi_id_%d_%s.csv", provinceID, d.clock.Now().Format(timestampLayout))
	path := filepath.Join(d.root, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("save province %d: %w", provinceID, err)
	}
	return path, nil
}

// Paths lists every regular file under the workspace, recursively, sorted.
func (d *Dir) Paths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list workspace %s: %w", d.root, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// Describe decodes the province id and fetch time from a saved file name.
func Describe(path string) (domain.SourceFile, bool) {
	m := fileRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return domain.SourceFile{}, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.SourceFile{}, false
	}
	fetchedAt, err := time.Parse(timestampLayout, m[2])
	if err != nil {
		return domain.SourceFile{}, false
	}
	return domain.SourceFile{Path: path, ProvinceID: id, FetchedAt: fetchedAt}, true
}
