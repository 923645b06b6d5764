package mapping

import (
	_ "embed"
	"maps"
	"sync"
)

//go:embed standard.json
var standardDocument []byte

var standard = sync.OnceValue(func() *Config {
	cfg, err := Parse(standardDocument, FormatJSON)
	if err != nil {
		panic(err)
	}
	return cfg
})

// Default returns the built-in mapping of the standard vendor template.
// The result is a copy and may be modified.
func Default() *Config {
	src := standard()
	out := &Config{Worksheets: make(map[string]Worksheet, len(src.Worksheets))}
	for name, ws := range src.Worksheets {
		out.Worksheets[name] = Worksheet{Purpose: ws.Purpose, Columns: maps.Clone(ws.Columns)}
	}
	return out
}
