package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	"github.com/yungbote/dsaquest-backend/internal/data/repos/testutil"
)

func newTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	return NewGormStore(db, repos.New(db, testutil.Logger(t))), db
}

func newTestContext(t *testing.T, store Store) *Context {
	t.Helper()
	return NewContext(store, testutil.Logger(t))
}

func writeContent(t *testing.T, files map[string]string) DirFS {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return DirFS(dir)
}

func issuesFrom(r *Report, source string, sev Severity) []Issue {
	var out []Issue
	for _, is := range r.Issues() {
		if is.Source == source && is.Severity == sev {
			out = append(out, is)
		}
	}
	return out
}
