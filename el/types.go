package el

import "github.com/vango-dev/renditional/pkg/render"

// Type aliases for the render primitives used by the DSL.
type Template = render.Template
type Effect = render.Effect
type Region = render.Region
