package requestfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/llmprovider"
)

// ErrInvalidRequestFile reports a malformed request document. Use errors.Is.
var ErrInvalidRequestFile = errors.New("requestfile: request document is malformed")

// Document is a parsed request document: the request plus the options it carries.
type Document struct {
	Request *llmprovider.Request
	Options *llmprovider.ExecutionOptions
}

// fileRequest is the YAML shape of a request document.
type fileRequest struct {
	Model          string                      `yaml:"model"`
	Messages       []fileMessage               `yaml:"messages"`
	ResponseFormat *llmprovider.ResponseFormat `yaml:"response_format"`
	Options        map[string]any              `yaml:"options"`
}

type fileMessage struct {
	Role    string    `yaml:"role"`
	Content yaml.Node `yaml:"content"`
	Name    string    `yaml:"name"`
}

// ParseBytes parses a YAML (or JSON) request document.
func ParseBytes(data []byte) (*Document, error) {
	var f fileRequest
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequestFile, err)
	}
	return build(&f)
}

// ParseFile reads and parses a request document.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("requestfile: read file: %w", err)
	}
	return ParseBytes(data)
}

// ParseFS reads and parses a request document from fs.FS (e.g. embed.FS).
func ParseFS(fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("requestfile: read fs: %w", err)
	}
	return ParseBytes(data)
}

func build(f *fileRequest) (*Document, error) {
	if len(f.Messages) == 0 {
		return nil, fmt.Errorf("%w: missing messages", ErrInvalidRequestFile)
	}
	req := &llmprovider.Request{
		Model:    f.Model,
		Messages: make([]llmprovider.Message, 0, len(f.Messages)),
	}
	for i, m := range f.Messages {
		role := llmprovider.Role(m.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: message %d: invalid role %q", ErrInvalidRequestFile, i, m.Role)
		}
		content, err := decodeContent(&m.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: message %d: %w", ErrInvalidRequestFile, i, err)
		}
		req.Messages = append(req.Messages, llmprovider.Message{Role: role, Content: content, Name: m.Name})
	}
	if rf := f.ResponseFormat; rf != nil {
		if rf.Type == llmprovider.ResponseFormatJSONSchema && (rf.JSONSchema == nil || rf.JSONSchema.Name == "") {
			return nil, fmt.Errorf("%w: json_schema response format needs a schema name", ErrInvalidRequestFile)
		}
		req.ResponseFormat = rf
	}
	return &Document{Request: req, Options: llmprovider.OptionsFromMap(f.Options)}, nil
}

// decodeContent maps a YAML node to the content union: null or missing is absent,
// a scalar is Text, a sequence of scalars is TextList.
func decodeContent(n *yaml.Node) (llmprovider.Content, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return llmprovider.Text(n.Value), nil
	case yaml.SequenceNode:
		list := make(llmprovider.TextList, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() == "!!null" {
				return nil, errors.New("content list items must be strings")
			}
			list = append(list, item.Value)
		}
		return list, nil
	default:
		return nil, errors.New("content must be a string, a list of strings or null")
	}
}
