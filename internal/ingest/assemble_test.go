package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
	"github.com/couchcryptid/vhi-dashboard/internal/ingest"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAssembleTolerant_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "vhi_id_4_16102026120000.csv", export(4))
	bad := writeFile(t, dir, "vhi_id_5_16102026120000.csv", "<br>no marker<br>\n")

	var skipped []string
	ds, err := ingest.AssembleTolerant([]string{good, bad}, func(p string, _ error) {
		skipped = append(skipped, p)
	})
	require.NoError(t, err)

	region, err := domain.RegionForProvince(4)
	require.NoError(t, err)
	assert.Equal(t, []int{region}, ds.Regions())
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{bad}, skipped)
}

func TestAssembleTolerant_NothingLoaded(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "vhi_id_5_16102026120000.csv", "<br>no marker<br>\n")

	_, err := ingest.AssembleTolerant([]string{bad}, nil)
	assert.ErrorIs(t, err, ingest.ErrNoData)

	_, err = ingest.AssembleTolerant(nil, nil)
	assert.ErrorIs(t, err, ingest.ErrNoData)
}
