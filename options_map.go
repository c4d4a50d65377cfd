package tree

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// optionsSpec is the decode target for OptionsFromMap. Field names
// match the With* builders.
type optionsSpec struct {
	Default         any    `mapstructure:"default"`
	DefaultNodeType string `mapstructure:"defaultNodeType"`
	NodeTypes       string `mapstructure:"nodeTypes"`
	ListInsert      int    `mapstructure:"listInsert"`
	PathSep         string `mapstructure:"pathSep"`
	If              any    `mapstructure:"if"`
	IterFill        any    `mapstructure:"iterFill"`
	IterNodes       bool   `mapstructure:"iterNodes"`
	MaxDepth        int    `mapstructure:"maxDepth"`
	MergeAction     string `mapstructure:"mergeAction"`
	ExtendFrom      int    `mapstructure:"extendFrom"`
	UpdateFrom      int    `mapstructure:"updateFrom"`
}

// OptionsFromMap decodes a flat option map, as loaded from a config
// file, into an Options value. Only the keys present in the map are
// set; unknown keys and invalid values are errors.
func OptionsFromMap(m map[string]any) (*Options, error) {
	var spec optionsSpec
	var meta mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &spec,
		Metadata:    &meta,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, newOptionError("options", m, err.Error())
	}
	o := NewOptions()
	for _, key := range meta.Keys {
		switch strings.ToLower(key) {
		case "default":
			o.WithDefault(spec.Default)
		case "defaultnodetype":
			o.WithDefaultNodeType(spec.DefaultNodeType)
		case "nodetypes":
			o.WithNodeTypes(spec.NodeTypes)
		case "listinsert":
			o.WithListInsert(spec.ListInsert)
		case "pathsep":
			o.WithPathSep(spec.PathSep)
		case "if":
			o.WithIf(spec.If)
		case "iterfill":
			o.WithIterFill(spec.IterFill)
		case "iternodes":
			o.WithIterNodes(spec.IterNodes)
		case "maxdepth":
			o.WithMaxDepth(spec.MaxDepth)
		case "mergeaction":
			o.WithMergeAction(spec.MergeAction)
		case "extendfrom":
			o.WithExtendFrom(spec.ExtendFrom)
		case "updatefrom":
			o.WithUpdateFrom(spec.UpdateFrom)
		}
	}
	if err := validateOptions(o); err != nil {
		return nil, err
	}
	return o, nil
}
