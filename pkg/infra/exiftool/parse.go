package exiftool

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/valyala/fastjson"
)

const (
	sourceFileKey = "SourceFile"
	toolGroupKey  = "ExifTool"
)

var parserPool fastjson.ParserPool

// ParseGrouped flattens the output of `exiftool -j -g1` for a single file.
// Groups are walked in document order and the first occurrence of a tag wins.
func ParseGrouped(out []byte) ([]metadata.RawTag, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	doc, err := p.ParseBytes(out)
	if err != nil {
		return nil, fmt.Errorf("invalid exiftool output: %w", err)
	}
	files, err := doc.Array()
	if err != nil {
		return nil, fmt.Errorf("invalid exiftool output: %w", err)
	}
	if len(files) == 0 {
		return nil, nil
	}
	root, err := files[0].Object()
	if err != nil {
		return nil, fmt.Errorf("invalid exiftool output: %w", err)
	}

	seen := make(map[string]struct{})
	var tags []metadata.RawTag
	add := func(name string, v *fastjson.Value) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		tags = append(tags, metadata.RawTag{Name: name, Value: textOf(v)})
	}

	root.Visit(func(key []byte, v *fastjson.Value) {
		name := string(key)
		if name == sourceFileKey || name == toolGroupKey {
			return
		}
		group, err := v.Object()
		if err != nil {
			add(name, v)
			return
		}
		group.Visit(func(tag []byte, tv *fastjson.Value) {
			add(string(tag), tv)
		})
	})
	return tags, nil
}

func textOf(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNull:
		return ""
	case fastjson.TypeArray:
		items := v.GetArray()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, textOf(item))
		}
		return strings.Join(parts, ", ")
	default:
		// numbers keep their original spelling, objects and booleans their JSON form
		return v.String()
	}
}
