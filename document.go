package orchestra

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// inheritLiteral marks an inherit entry in documents.
const inheritLiteral = "inherit"

// configKey is the reserved key holding an object's config in documents.
const configKey = "config"

// Document is a timeline loaded from YAML or JSON.
//
//	length: 4              # optional override
//	easing: inOutQuad      # global clip options
//	objects:
//	  cube:
//	    config: {easing: linear}
//	    alpha: 0
//	    position: {x: 0, y: 0}
//	keyframes:
//	  cube:
//	    "0":   {alpha: {value: 1}}
//	    "1":   {position: inherit}
//	    "2.5": {alpha: {value: 0, easing: outCubic}, position: {value: {x: 40, y: 0}}}
//
// Objects, fields and frames keep their document order.
type Document struct {
	Config     ClipsConfig
	Base       *Base
	Definition *Definition
}

// documentFile is the top-level document structure.
type documentFile struct {
	ClipsConfig `yaml:",inline"`
	Objects     yaml.Node `yaml:"objects"`
	Keyframes   yaml.Node `yaml:"keyframes"`
}

// entryFile is a value entry: the value plus its per-frame config.
type entryFile struct {
	Value      yaml.Node `yaml:"value"`
	ClipConfig `yaml:",inline"`
}

// LoadDocument parses a YAML (or JSON) document. Field values are decoded
// with each field's Decode capability.
func LoadDocument(data []byte, fields Fields) (*Document, error) {
	var file documentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc := &Document{
		Config:     file.ClipsConfig,
		Base:       NewBase(),
		Definition: NewDefinition(),
	}
	if err := doc.loadObjects(&file.Objects, fields); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.loadKeyframes(&file.Keyframes, fields); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// LoadDocumentFile reads and parses a document from disk.
func LoadDocumentFile(path string, fields Fields) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return LoadDocument(data, fields)
}

// Orchestrate compiles the document into a ClipStore.
func (d *Document) Orchestrate(fields Fields, opts ...Option) (*ClipStore, error) {
	return Orchestrate(fields, d.Base, d.Definition, d.Config, opts...)
}

func (d *Document) loadObjects(node *yaml.Node, fields Fields) error {
	if node.Kind == 0 {
		return nil
	}
	pairs, err := mappingPairs(node, "objects")
	if err != nil {
		return err
	}
	for _, p := range pairs {
		obj := d.Base.Object(p.key)
		values, err := mappingPairs(p.value, "object "+strconv.Quote(p.key))
		if err != nil {
			return err
		}
		for _, v := range values {
			if v.key == configKey {
				if err := v.value.Decode(&obj.Config); err != nil {
					return fmt.Errorf("object %q config: %w", p.key, err)
				}
				continue
			}
			val, err := decodeValue(fields, v.key, v.value)
			if err != nil {
				return &CompileError{Object: p.key, Field: v.key, Err: err}
			}
			obj.Set(v.key, val)
		}
	}
	return nil
}

func (d *Document) loadKeyframes(node *yaml.Node, fields Fields) error {
	if node.Kind == 0 {
		return nil
	}
	objects, err := mappingPairs(node, "keyframes")
	if err != nil {
		return err
	}
	for _, o := range objects {
		frames, err := mappingPairs(o.value, "keyframes of "+strconv.Quote(o.key))
		if err != nil {
			return err
		}
		for _, fr := range frames {
			t, err := strconv.ParseFloat(fr.key, 64)
			if err != nil {
				return &CompileError{Object: o.key, TimeKey: fr.key, Err: ErrInvalidTime}
			}
			frame := d.Definition.AddFrame(o.key, &Frame{Time: t, Key: fr.key})
			entries, err := mappingPairs(fr.value, "frame "+strconv.Quote(fr.key))
			if err != nil {
				return err
			}
			for _, e := range entries {
				entry, err := decodeEntry(fields, e.key, e.value)
				if err != nil {
					return &CompileError{Object: o.key, Field: e.key, Time: t, Err: err}
				}
				frame.Entries = append(frame.Entries, entry)
			}
		}
	}
	return nil
}

const nullTag = "!!null"

// decodeEntry reads an inherit marker or a value entry. Any other shape
// yields an entry with neither, which Compile rejects as malformed.
func decodeEntry(fields Fields, field string, node *yaml.Node) (Entry, error) {
	e := Entry{Field: field}
	switch {
	case node.Kind == yaml.ScalarNode && node.Value == inheritLiteral:
		e.Inherit = true
	case node.Kind == yaml.MappingNode:
		var ef entryFile
		if err := node.Decode(&ef); err != nil {
			return e, err
		}
		e.Config = ef.ClipConfig
		// A missing or null value leaves the entry malformed.
		if ef.Value.Kind != 0 && ef.Value.ShortTag() != nullTag {
			v, err := decodeValue(fields, field, &ef.Value)
			if err != nil {
				return e, err
			}
			e.HasValue = true
			e.Value = v
		}
	}
	return e, nil
}

func decodeValue(fields Fields, field string, node *yaml.Node) (Value, error) {
	f, ok := fields[field]
	if !ok {
		return nil, ErrUnknownField
	}
	if f.Decode == nil {
		return nil, fmt.Errorf("field %q cannot be decoded from documents", field)
	}
	v, err := f.Decode(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValueType, err)
	}
	return v, nil
}

type nodePair struct {
	key   string
	value *yaml.Node
}

// mappingPairs returns the key/value pairs of a mapping node in document order.
func mappingPairs(node *yaml.Node, what string) ([]nodePair, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: expected a mapping (line %d)", what, node.Line)
	}
	pairs := make([]nodePair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, nodePair{key: node.Content[i].Value, value: node.Content[i+1]})
	}
	return pairs, nil
}
