package config

import (
	"path/filepath"
	"strings"

	"github.com/valyala/fasttemplate"
)

// RenderPath expands {{dir}}, {{name}} and {{ext}} in tpl from the
// input path. For "img/cat.png" they are "img", "cat" and ".png".
// Unknown placeholders are kept as-is.
func RenderPath(tpl string, input string) string {
	ext := filepath.Ext(input)
	name := strings.TrimSuffix(filepath.Base(input), ext)
	dir := filepath.Dir(input)

	if input == "" {
		name, dir = "", "."
	}

	return fasttemplate.ExecuteStringStd(
		tpl, "{{", "}}",
		map[string]any{
			"dir":  dir,
			"name": name,
			"ext":  ext,
		},
	)
}
