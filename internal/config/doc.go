// Package config provides configuration management for retrato.
//
// Configuration is YAML and layered. Later layers override earlier ones:
//
//  1. Defaults compiled into the binary (GetDefaultConfig).
//  2. User configuration (~/.config/retrato/config.yaml).
//  3. Project configuration (./.retrato/config.yaml).
//
// A single directory can be used instead of the layers with LoadConfigFromPath.
//
// # Configuration Structure
//
//	backend:
//	  baseURL: "http://127.0.0.1:5000"
//	  timeout: 2m
//
//	wizard:
//	  testStep: false        # format selection + /test_photo before processing
//	  chromaKey: false       # whiten near-white camera pixels before export
//	  chromaThreshold: 180
//	  textUpload: false      # send photos to /upload instead of /capture_photo
//	  cameraDevice: 0
//	  alertDuration: 3s
//	  progressSteps: 10
//	  progressInterval: 200ms
//	  defaultFormat: "A4"
//	  formats:
//	    - name: "A4"
//	      width: 210
//	      height: 297
//
//	mcp:
//	  transport: "stdio"     # or "sse"
//	  host: "localhost"
//	  port: 8095
//
// Scalar keys present in a layer replace the value below them. Formats are
// merged by name: a layer can redefine one format without repeating the rest.
package config
