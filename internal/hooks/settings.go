package hooks

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/jsontree"
)

// LoadSettings reads the settings document. A missing file yields an empty
// object and exists=false.
func LoadSettings(path string) (doc *jsontree.Object, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return jsontree.NewObject(), false, nil
		}
		return nil, false, apperr.Wrap(apperr.ErrIO, "load settings", "read "+path, err)
	}

	doc, err = jsontree.ParseObject(data)
	if err != nil {
		return nil, true, apperr.Wrap(apperr.ErrParse, "load settings", "invalid settings.json", err)
	}
	return doc, true, nil
}

// SaveSettings writes the document back with two-space indentation
func SaveSettings(path string, doc *jsontree.Object) error {
	data, err := jsontree.Marshal(doc)
	if err != nil {
		return apperr.Wrap(apperr.ErrParse, "save settings", "serialize settings", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrIO, "save settings", "create settings directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.ErrIO, "save settings", "write "+path, err)
	}
	return nil
}

// ExistingHooks returns the document's hook mapping, or an empty one when
// the key is absent. A hooks value that is not an object is a parse error:
// we refuse to overwrite what we cannot read.
func ExistingHooks(doc *jsontree.Object) (*jsontree.Object, error) {
	value, ok := doc.Get(HooksKey)
	if !ok || value == nil {
		return jsontree.NewObject(), nil
	}
	hooks, ok := value.(*jsontree.Object)
	if !ok {
		return nil, apperr.Wrap(apperr.ErrParse, "read hooks",
			"settings \"hooks\" is a "+jsontree.TypeName(value)+", expected an object", nil)
	}
	return hooks, nil
}
