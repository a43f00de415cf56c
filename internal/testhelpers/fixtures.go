package testhelpers

import (
	"os"
	"path/filepath"
)

func LoadFixture(name string) ([]byte, error) {
	return os.ReadFile(FixturePath(name))
}

// FixturePath resolves name relative to a package directory under internal/.
func FixturePath(name string) string {
	return filepath.Join("..", "testhelpers", "fixtures", name)
}
