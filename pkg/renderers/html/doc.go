// Package html renders form layouts to HTML fragments with pongo2
// templates. Sections become collapsible <details> blocks, option values are
// encoded with render.OptionCodec so typed values survive the round trip, and
// description markup is sanitised before it is emitted unescaped.
package html
