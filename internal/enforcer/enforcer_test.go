package enforcer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforceAll_EmptyPolicyList(t *testing.T) {
	e := New(nil, nil)

	results, err := e.EnforceAll(context.Background(), Configuration{
		MaxWorkers: 4,
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEnforceAll_InvalidMaxWorkers(t *testing.T) {
	e := New(nil, nil)

	for _, workers := range []int{0, -1} {
		_, err := e.EnforceAll(context.Background(), Configuration{
			MaxWorkers: workers,
			Policies:   []Policy{{Directory: t.TempDir(), Pattern: "*"}},
		})
		assert.Error(t, err, "workers=%d", workers)
	}
}

func TestEnforceAll_ResultCompleteness(t *testing.T) {
	const policyCount = 20

	policies := make([]Policy, 0, policyCount)
	wantDirs := make(map[string]bool)
	for i := 0; i < policyCount; i++ {
		var dir string
		if i%3 == 0 {
			// Some targets do not exist; they must still produce a result
			dir = filepath.Join(t.TempDir(), fmt.Sprintf("missing-%d", i))
		} else {
			dir = t.TempDir()
			writeAgedFile(t, dir, "old.log", days(30))
		}
		policies = append(policies, Policy{
			Directory:  dir,
			Pattern:    "*.log",
			MaxAgeDays: 7,
		})
		wantDirs[dir] = true
	}

	for _, workers := range []int{1, 3, policyCount + 5} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			// Recreate deleted fixtures between subtests
			for _, p := range policies {
				if strings.Contains(p.Directory, "missing-") {
					continue
				}
				writeAgedFile(t, p.Directory, "old.log", days(30))
			}

			e := New(nil, nil)
			results, err := e.EnforceAll(context.Background(), Configuration{
				MaxWorkers: workers,
				Policies:   policies,
			})

			require.NoError(t, err)
			require.Len(t, results, policyCount)

			gotDirs := make(map[string]bool)
			for _, res := range results {
				gotDirs[res.Directory] = true
			}
			assert.Equal(t, wantDirs, gotDirs)
		})
	}
}

func TestEnforceAll_PanicRecovery(t *testing.T) {
	goodDir := t.TempDir()
	writeAgedFile(t, goodDir, "old.log", days(30))
	badDir := t.TempDir()

	e := New(nil, nil)
	e.readDir = func(dir string) ([]os.DirEntry, error) {
		if dir == badDir {
			panic("listing exploded")
		}
		return os.ReadDir(dir)
	}

	results, err := e.EnforceAll(context.Background(), Configuration{
		MaxWorkers: 2,
		Policies: []Policy{
			{Directory: badDir, Pattern: "*.log", MaxAgeDays: 7},
			{Directory: goodDir, Pattern: "*.log", MaxAgeDays: 7},
		},
	})

	require.NoError(t, err)
	require.Len(t, results, 2)

	byDir := make(map[string]Result)
	for _, res := range results {
		byDir[res.Directory] = res
	}

	assert.Equal(t, 1, byDir[badDir].Failed, "panicking traversal counts as one failure")
	assert.Equal(t, 0, byDir[badDir].Deleted)
	assert.Equal(t, 1, byDir[goodDir].Deleted, "other policies are unaffected")
}

func TestEnforceAll_RuntimeMeasured(t *testing.T) {
	dir := t.TempDir()
	writeAgedFile(t, dir, "old.log", days(30))

	e := New(nil, nil)
	results, err := e.EnforceAll(context.Background(), Configuration{
		MaxWorkers: 1,
		Policies:   []Policy{{Directory: dir, Pattern: "*.log", MaxAgeDays: 7}},
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Runtime.Nanoseconds(), int64(0))
}
