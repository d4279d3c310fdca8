// Package snapshot compares values against JSON files stored in testdata
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// TestingT is the subset of *testing.T that ValidateSnapshot needs
type TestingT interface {
	assert.TestingT
	Helper()
	Name() string
	Logf(format string, args ...interface{})
}

// Dir is where snapshot files are read and written
var Dir = "testdata"

// UpdateEnv rewrites every snapshot when set to a non-empty value
const UpdateEnv = "UPDATE_SNAPSHOTS"

var (
	mu        sync.Mutex
	callCount = make(map[string]int)
)

// ValidateSnapshot compares obj, encoded as indented JSON, to the next snapshot file for the test
// Each call within a test uses its own file: <test name>-<call>.json. Missing files are created
func ValidateSnapshot(t TestingT, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()

	filename := nextFilename(t.Name())
	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Errorf("could not encode snapshot: %v", err)
		return false
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || (err == nil && os.Getenv(UpdateEnv) != "") {
		if err := write(filename, objJSON); err != nil {
			t.Errorf("could not write snapshot: %v", err)
			return false
		}

		return true
	} else if err != nil {
		t.Errorf("could not read snapshot: %v", err)
		return false
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
		return false
	}

	return true
}

func nextFilename(testName string) string {
	mu.Lock()
	defer mu.Unlock()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(testName)
	call := callCount[name]
	callCount[name] = call + 1

	return filepath.Join(Dir, fmt.Sprintf("%s-%d.json", name, call))
}

func write(filename string, b []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(b, '\n'), 0644) // nolint:gosec
}
