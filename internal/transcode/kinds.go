package transcode

import (
	"asset-transcoder/internal/assettypes"
	"asset-transcoder/internal/engines"
)

// kindSpec binds an asset kind to its slot in the resolved options, its
// override hook, its engine and the result field it serves.
type kindSpec struct {
	options  func(*ResolvedOptions) *KindOptions
	override func(*ResolvedOptions) Transformer
	engine   func(engines.Set) engines.Engine
	output   func(*engines.Result) string
}

var kindTable = map[assettypes.Kind]kindSpec{
	assettypes.KindCSS: {
		options:  func(o *ResolvedOptions) *KindOptions { return &o.CSS },
		override: func(o *ResolvedOptions) Transformer { return o.OnCSS },
		engine:   func(s engines.Set) engines.Engine { return s.CSS },
		output:   func(r *engines.Result) string { return r.CSS },
	},
	assettypes.KindJS: {
		options:  func(o *ResolvedOptions) *KindOptions { return &o.JS },
		override: func(o *ResolvedOptions) Transformer { return o.OnJS },
		engine:   func(s engines.Set) engines.Engine { return s.JS },
		output:   func(r *engines.Result) string { return r.Code },
	},
	assettypes.KindHTML: {
		options:  func(o *ResolvedOptions) *KindOptions { return &o.HTML },
		override: func(o *ResolvedOptions) Transformer { return o.OnHTML },
		engine:   func(s engines.Set) engines.Engine { return s.HTML },
		output:   func(r *engines.Result) string { return r.HTML },
	},
}
