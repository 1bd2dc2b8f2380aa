package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/blackcoderx/cannon/internal/cannonerr"
)

// Load reads and decodes a manifest file, dispatching on its extension, and
// builds the scheduler-ready Manifest model (§3, §6). A ".json" file whose
// content looks like a Postman collection export is routed to
// FromPostmanCollection instead of the plain Manifest decode.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}

	var raw RawManifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, cannonerr.Syntaxf("parsing YAML manifest: %v", err)
		}
	case ".json":
		if looksLikePostmanCollection(data) {
			return FromPostmanCollection(data)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, cannonerr.Syntaxf("parsing JSON manifest: %v", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, cannonerr.Syntaxf("parsing TOML manifest: %v", err)
		}
	case ".hjson":
		var generic interface{}
		if err := hjson.Unmarshal(data, &generic); err != nil {
			return nil, cannonerr.Syntaxf("parsing HJSON manifest: %v", err)
		}
		bridged, err := json.Marshal(generic)
		if err != nil {
			return nil, cannonerr.Syntaxf("re-encoding HJSON manifest: %v", err)
		}
		if err := json.Unmarshal(bridged, &raw); err != nil {
			return nil, cannonerr.Syntaxf("decoding HJSON manifest: %v", err)
		}
	default:
		return nil, cannonerr.Syntaxf("unsupported manifest extension %q", ext)
	}

	return build(&raw, filepath.Dir(path))
}
