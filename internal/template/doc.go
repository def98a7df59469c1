// Package template loads declarative card templates and binds album data
// into them to produce an SVG document.
//
// # Template Files
//
// Templates are JSON documents. Every entry of svg_placeholders is an SVG
// fragment which may reference named fields in braces, such as
// {album_title}. Literal braces are written doubled: {{ and }}.
//
//	{
//	  "svg_placeholders": {
//	    "file_wrapper_open": "<svg ...>",
//	    "album_title": "<text x=\"60\" y=\"1130\">{album_title}</text>",
//	    "tracklist_item": "<text x=\"{tracklist_item_x}\" y=\"{tracklist_item_y}\" text-anchor=\"{tracklist_item_text_anchor}\">{track_title}</text>",
//	    ...
//	  },
//	  "tracklist_item_coordinates": [{"x": 60, "y": 1250, "text_anchor": "start"}],
//	  "color_blob_item_coordinates": [{"x": 880, "y": 1180}],
//	  "limits": {"tracklist_item_max": 16, "color_blob_item_max": 5},
//	  "font_weight_mapping": {"bold": "go-bold"},
//	  "weight_kerning_factors": {"bold": 1.05},
//	  "dims": {"doc_width": 1080, "x_padding": 60}
//	}
//
// Load validates the whole document up front: missing fragments, unknown
// fields and malformed braces fail with ErrBinding before any data is bound.
//
// # Binding
//
// Bind concatenates the fragments in document order. All text coming from
// the catalog is HTML escaped before insertion; album title, artist and
// copyright are upper-cased first. Track rows and color blobs are bound
// positionally to the coordinate tables, capped by the template limits.
//
// The optional text_fitting section names the font each text field renders
// with. With WithFitter those fields are cut to the document width and end
// in an ellipsis. The text sharing the field's text node, such as the
// "{track_number}. " of a track row, counts towards the width.
//
// The classic and dark templates ship with the package; see Builtin.
package template
