package cassette

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Serializer names.
const (
	SerializerYAML = "yaml"
	SerializerJSON = "json"
)

// Serializer encodes and decodes the cassette file structure.
type Serializer interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// SerializerFor returns the serializer registered under name.
func SerializerFor(name string) (Serializer, error) {
	switch strings.ToLower(name) {
	case SerializerYAML, "yml", "":
		return YAMLSerializer{}, nil
	case SerializerJSON:
		return JSONSerializer{}, nil
	default:
		return nil, errors.Errorf("unknown serializer '%s'", name)
	}
}

// SerializerForPath picks the serializer from a cassette file name:
// JSON for '.json' and '.json.gz', YAML otherwise.
func SerializerForPath(name string) Serializer {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	if strings.HasSuffix(name, ".json") {
		return JSONSerializer{}
	}

	return YAMLSerializer{}
}

// YAMLSerializer encodes cassettes as YAML documents.
type YAMLSerializer struct{}

// Name implements Serializer.
func (YAMLSerializer) Name() string { return SerializerYAML }

// Marshal implements Serializer.
func (YAMLSerializer) Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	return data, errors.WithStack(err)
}

// Unmarshal implements Serializer.
func (YAMLSerializer) Unmarshal(data []byte, v any) error {
	return errors.WithStack(yaml.Unmarshal(data, v))
}

// JSONSerializer encodes cassettes as indented JSON.
type JSONSerializer struct{}

// Name implements Serializer.
func (JSONSerializer) Name() string { return SerializerJSON }

// Marshal implements Serializer.
func (JSONSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	return data, errors.WithStack(err)
}

// Unmarshal implements Serializer.
func (JSONSerializer) Unmarshal(data []byte, v any) error {
	return errors.WithStack(json.Unmarshal(data, v))
}
