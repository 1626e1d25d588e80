// Package hparams provides a hierarchical configuration tree for model
// hyperparameters, with defaults pre-populated from nested maps and
// overridable from in-process maps, key=value override strings, and
// YAML files.
//
// Quick Start:
//
//	cfg := hparams.New(map[string]any{
//	    "model": map[string]any{
//	        "image_size":    640,
//	        "aspect_ratios": []any{1.0, 2.0, 0.5},
//	    },
//	    "learning_rate": 0.08,
//	})
//
//	err := cfg.Override("model.image_size=512,learning_rate=0.016", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	size, _ := cfg.Int64("model.image_size")
//
// Override Strings:
//
// An override string is a comma-separated list of key=value assignments.
// Keys use dots to address nested settings, and '*' is reserved as an
// array-element separator:
//
//	"model.image_size=512,model.aspect_ratios=1.0*2.0*0.5,name=efficientdet-d0"
//
// Values are parsed as literals (numbers, booleans, quoted strings, null);
// anything that does not parse as a literal is kept as a plain string.
//
// Strictness:
//
// Update always accepts new keys. Override by default only touches keys
// that already exist, at any depth, and fails with ErrUnknownKey otherwise;
// this catches typos in override strings and files before they silently
// become new settings.
//
// Concurrency:
//
// A Config is not safe for concurrent mutation. Callers that share a tree
// across goroutines must synchronize externally.
package hparams
