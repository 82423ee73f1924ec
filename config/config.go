// Package config loads dispatcher and warning configuration from a YAML file
// and the environment. Recognized keys are enumerated; anything else fails
// loading with a configuration error instead of being silently ignored.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Keksclan/goFlowSquirrel/deprecate"
	"github.com/Keksclan/goFlowSquirrel/dispatch"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Options is the enumerated configuration surface.
type Options struct {
	DispatchMode string `koanf:"dispatch-mode"` // sync | async
	WarnMode     string `koanf:"warn-mode"`     // runtime | build-time | silent
	WorkerCount  int    `koanf:"worker-count"`  // async only, positive
	QueueDepth   int    `koanf:"queue-depth"`   // async only, positive
}

// knownKeys is the full set of recognized option names.
var knownKeys = map[string]bool{
	"dispatch-mode": true,
	"warn-mode":     true,
	"worker-count":  true,
	"queue-depth":   true,
}

// Load reads options from the YAML file at path (skipped when path is empty)
// and then from environment variables carrying envPrefix (for example
// FLOW_DISPATCH_MODE with prefix "FLOW_"). Environment values win over file
// values.
//
// Unknown keys and invalid values fail with a [flow.ConfigurationError]; no
// partial configuration is returned.
func Load(path, envPrefix string) (*Options, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &flow.ConfigurationError{Reason: "loading " + path + ": " + err.Error()}
		}
	}

	if envPrefix != "" {
		if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
		}), nil); err != nil {
			return nil, &flow.ConfigurationError{Reason: "loading environment: " + err.Error()}
		}
	}

	for _, key := range k.Keys() {
		if !knownKeys[key] {
			return nil, &flow.ConfigurationError{Option: key, Reason: "unrecognized option"}
		}
	}

	opts := Options{
		DispatchMode: "sync",
		WarnMode:     "runtime",
		WorkerCount:  4,
		QueueDepth:   64,
	}
	if err := k.Unmarshal("", &opts); err != nil {
		return nil, &flow.ConfigurationError{Reason: "unmarshal: " + err.Error()}
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (o *Options) validate() error {
	switch o.DispatchMode {
	case "sync", "async":
	default:
		return &flow.ConfigurationError{Option: "dispatch-mode", Reason: "must be sync or async, got " + o.DispatchMode}
	}

	if _, err := deprecate.ParseMode(o.WarnMode); err != nil {
		return &flow.ConfigurationError{Option: "warn-mode", Reason: err.Error()}
	}

	if o.DispatchMode == "async" {
		if o.WorkerCount <= 0 {
			return &flow.ConfigurationError{Option: "worker-count", Reason: "must be positive"}
		}
		if o.QueueDepth <= 0 {
			return &flow.ConfigurationError{Option: "queue-depth", Reason: "must be positive"}
		}
	}
	return nil
}

// Async reports whether asynchronous dispatch was configured.
func (o *Options) Async() bool { return o.DispatchMode == "async" }

// ParsedWarnMode returns the warn mode as a [deprecate.Mode]. Load has
// already validated the spelling.
func (o *Options) ParsedWarnMode() deprecate.Mode {
	m, _ := deprecate.ParseMode(o.WarnMode)
	return m
}

// DispatcherOptions translates the loaded options into dispatcher options.
func (o *Options) DispatcherOptions() []dispatch.Option {
	return []dispatch.Option{
		dispatch.WithWorkers(o.WorkerCount),
		dispatch.WithQueueDepth(o.QueueDepth),
	}
}
