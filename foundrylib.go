// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package foundrylib

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/Azure/foundrylib/assets"
	"github.com/Azure/foundrylib/internal/processor"
)

const (
	defaultParallelism = 10 // default number of parallel requests to make to Azure APIs
)

// Embed the Lib dir into the binary.
// It contains the baseline topology variants that are usable without
// fetching a remote library.
//
//go:embed lib
var Lib embed.FS

// EmbeddedLibrary returns the embedded baseline library rooted at its
// library directory, suitable for passing to Init.
func EmbeddedLibrary() fs.FS {
	f, err := fs.Sub(Lib, "lib")
	if err != nil {
		panic(err) // embed layout is fixed at build time
	}
	return f
}

// FoundryLib is the structure that gets built from the library files.
// Do not create this directly, use NewFoundryLib instead.
type FoundryLib struct {
	Options *Options

	topologies    map[string]*assets.Topology
	defaultValues map[string]*DefaultValue
	clients       map[string]*processor.Client // topology name -> the library client it was read from
	metadata      []*Metadata
	mu            sync.RWMutex // mu protects the maps above
}

// Options are options for the FoundryLib.
// This is created by NewFoundryLib.
type Options struct {
	AllowOverwrite bool // AllowOverwrite allows overwriting of existing topologies when processing additional libraries with FoundryLib.Init()
	Parallelism    int  // Parallelism is the number of parallel requests to make to Azure APIs
}

// DefaultValue is a named default that maps a single value into parameters
// of one or more topologies.
type DefaultValue struct {
	Name        string
	Description string
	Value       any
	Assignments map[string][]string // topology name -> parameter names
}

// NewFoundryLib returns a new instance of the foundrylib library.
// Supply nil options to use the defaults.
func NewFoundryLib(opts *Options) *FoundryLib {
	if opts == nil {
		opts = getDefaultOptions()
	}
	return &FoundryLib{
		Options:       opts,
		topologies:    make(map[string]*assets.Topology),
		defaultValues: make(map[string]*DefaultValue),
		clients:       make(map[string]*processor.Client),
		metadata:      make([]*Metadata, 0),
	}
}

func getDefaultOptions() *Options {
	return &Options{
		Parallelism:    defaultParallelism,
		AllowOverwrite: false,
	}
}

// Init processes topology libraries, supplied as fs.FS interfaces.
// These are typically the embedded Lib variable, an os.DirFS, or the
// result of a library fetch.
// It populates the struct with the results of the processing.
func (fl *FoundryLib) Init(ctx context.Context, libs ...fs.FS) error {
	if fl.Options == nil || fl.Options.Parallelism == 0 {
		return errors.New("foundrylib Options not set or parallelism is 0")
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	for _, lib := range libs {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}
		res := processor.NewResult()
		pc := processor.NewClient(lib)
		if err := pc.Process(res); err != nil {
			return fmt.Errorf("FoundryLib.Init: error processing library %v: %w", lib, err)
		}

		if err := fl.addProcessedResult(res, pc); err != nil {
			return fmt.Errorf("FoundryLib.Init: %w", err)
		}
	}

	return nil
}

// addProcessedResult converts and stores the processor result.
// Caller must hold the write lock.
func (fl *FoundryLib) addProcessedResult(res *processor.Result, pc *processor.Client) error {
	for name, lt := range res.LibTopologies {
		if _, exists := fl.topologies[name]; exists && !fl.Options.AllowOverwrite {
			return fmt.Errorf("topology `%s` already exists in the library", name)
		}
		topo, err := lt.Topology()
		if err != nil {
			return err
		}
		fl.topologies[name] = topo
		fl.clients[name] = pc
	}

	for name, def := range res.LibDefaultValues {
		if _, exists := fl.defaultValues[name]; exists && !fl.Options.AllowOverwrite {
			return fmt.Errorf("default value `%s` already exists in the library", name)
		}
		dv := &DefaultValue{
			Name:        def.DefaultName,
			Description: def.Description,
			Value:       def.Value,
			Assignments: make(map[string][]string),
		}
		for _, a := range def.Assignments {
			dv.Assignments[a.TopologyName] = append(dv.Assignments[a.TopologyName], a.ParameterNames...)
		}
		fl.defaultValues[name] = dv
	}

	if res.Metadata != nil {
		fl.metadata = append(fl.metadata, NewMetadata(res.Metadata))
	}

	return nil
}

// Topology returns a deep copy of the requested topology by name, or nil.
// The returned value can be mutated without affecting the library.
func (fl *FoundryLib) Topology(name string) *assets.Topology {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	if topo, ok := fl.topologies[name]; ok {
		return topo.Copy()
	}
	return nil
}

// TopologyExists returns true if the topology exists in the library.
func (fl *FoundryLib) TopologyExists(name string) bool {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	_, exists := fl.topologies[name]
	return exists
}

// TopologyNames returns the sorted names of the topologies in the library.
func (fl *FoundryLib) TopologyNames() []string {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return sortedKeys(fl.topologies)
}

// DefaultValue returns the named default value, or nil.
func (fl *FoundryLib) DefaultValue(name string) *DefaultValue {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return fl.defaultValues[name]
}

// DefaultValueNames returns the sorted names of the default values in the library.
func (fl *FoundryLib) DefaultValueNames() []string {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return sortedKeys(fl.defaultValues)
}

// DefaultParameterValues computes the lowest-precedence parameter values for
// the given topology from all default values in the library.
func (fl *FoundryLib) DefaultParameterValues(topologyName string) map[string]any {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	res := make(map[string]any)
	for _, name := range sortedKeys(fl.defaultValues) {
		dv := fl.defaultValues[name]
		params, ok := dv.Assignments[topologyName]
		if !ok {
			continue
		}
		for _, p := range params {
			res[p] = dv.Value
		}
	}
	return res
}

// Template returns the raw ARM template document for the named stage of the
// named topology, read from the library the topology was processed from.
func (fl *FoundryLib) Template(topologyName, stageName string) ([]byte, error) {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	topo, ok := fl.topologies[topologyName]
	if !ok {
		return nil, fmt.Errorf("FoundryLib.Template: topology `%s` not found", topologyName)
	}
	stage := topo.Stage(stageName)
	if stage == nil {
		return nil, fmt.Errorf("FoundryLib.Template: stage `%s` not found in topology `%s`", stageName, topologyName)
	}
	data, err := fl.clients[topologyName].Template(stage.TemplateFile)
	if err != nil {
		return nil, fmt.Errorf("FoundryLib.Template: %w", err)
	}
	return data, nil
}

// Metadata returns the metadata of all processed libraries, in processing order.
func (fl *FoundryLib) Metadata() []*Metadata {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	res := make([]*Metadata, len(fl.metadata))
	copy(res, fl.metadata)
	return res
}
