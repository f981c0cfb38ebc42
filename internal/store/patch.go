package store

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ApplyPatch applies a patch document produced by an external hook:
//
//	{"set": {"package.dependencies.express": "^4.18.0", "install.port": 8080},
//	 "delete": ["install.legacy"]}
//
// Paths use gjson/sjson syntax and must start with version, package, install
// or env. An empty patch is a no-op. cfg is left untouched if any operation
// fails.
func ApplyPatch(cfg *Configuration, patch []byte) error {
	if len(bytes.TrimSpace(patch)) == 0 {
		return nil
	}
	if !gjson.ValidBytes(patch) {
		return fmt.Errorf("patch is not valid JSON")
	}
	root := gjson.ParseBytes(patch)
	if !root.IsObject() {
		return fmt.Errorf("patch must be a JSON object")
	}

	doc, err := cfg.Document()
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}

	var applyErr error
	root.Get("set").ForEach(func(key, value gjson.Result) bool {
		path := key.String()
		if applyErr = checkPatchPath(path); applyErr != nil {
			return false
		}
		doc, applyErr = sjson.SetRawBytes(doc, path, []byte(value.Raw))
		if applyErr != nil {
			applyErr = fmt.Errorf("setting %s: %w", path, applyErr)
		}
		return applyErr == nil
	})
	if applyErr != nil {
		return applyErr
	}

	root.Get("delete").ForEach(func(_, value gjson.Result) bool {
		path := value.String()
		if applyErr = checkPatchPath(path); applyErr != nil {
			return false
		}
		doc, applyErr = sjson.DeleteBytes(doc, path)
		if applyErr != nil {
			applyErr = fmt.Errorf("deleting %s: %w", path, applyErr)
		}
		return applyErr == nil
	})
	if applyErr != nil {
		return applyErr
	}

	obj, err := decodeObject(doc)
	if err != nil {
		return fmt.Errorf("parsing patched configuration: %w", err)
	}
	return cfg.replaceFrom(obj)
}

func checkPatchPath(path string) error {
	top, _, _ := strings.Cut(path, ".")
	switch top {
	case keyVersion, keyPackage, keyInstall, keyEnv:
		return nil
	default:
		return fmt.Errorf("patch path %q must start with %s, %s, %s or %s",
			path, keyVersion, keyPackage, keyInstall, keyEnv)
	}
}
