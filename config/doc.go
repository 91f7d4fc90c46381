// Package config loads the settings shared by every pain command.
//
// Settings come from, in increasing precedence: built-in defaults, a
// YAML file named by --config or the PAIN_CONFIG environment variable,
// and command-line flags. Output paths are templates; {{dir}}, {{name}}
// and {{ext}} expand to the parts of the input file path.
//
// Example file:
//
//	algorithm: sha3-512
//	workers: 0
//	compression: zstd
//	checksum: true
//	progress: auto
//	log_level: info
//	output:
//	  encrypted: "{{dir}}/{{name}}.pain"
//	  decrypted: decrypted.png
//	  test_image: pixels.png
package config
