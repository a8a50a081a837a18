package blob

import (
	"scenariokeeper/internal/infra/blob/fs"
)

// NewFilesystem returns a Store that keeps each object as a plain file under root.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
