// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package processor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Azure/foundrylib/internal/environment"
)

// These are the file suffixes for the catalog resource types.
const (
	TopologyDefinitionFileType = "foundry_topology"
	DefaultValuesFileType      = "foundry_default_values"
	topologyDefinitionSuffix   = ".+\\." + TopologyDefinitionFileType + "\\.(?:json|yaml|yml)$"
	defaultValuesFileName      = "^" + DefaultValuesFileType + "\\.(?:json|yaml|yml)$"
)

const (
	foundryLibraryMetadataFile = "foundry_library_metadata.json"
)

var supportedFileTypes = []string{".json", ".yaml", ".yml"}

var TopologyDefinitionRegex = regexp.MustCompile(topologyDefinitionSuffix)
var DefaultValuesRegex = regexp.MustCompile(defaultValuesFileName)

var (
	// ErrResourceAlreadyExists is returned when a resource already exists in the result.
	ErrResourceAlreadyExists = errors.New("resource already exists in the result")

	// ErrNoNameProvided is returned when no name was provided for the resource.
	ErrNoNameProvided = errors.New("no name provided for the resource, cannot process it without a name")

	// ErrUnmarshaling is returned when unmarshaling fails.
	ErrUnmarshaling = errors.New("error converting data from YAML/JSON, please check the file format and content")

	// ErrMultipleDefaultValuesFileFound is returned when multiple default values files are found.
	ErrMultipleDefaultValuesFileFound = errors.New("multiple default values files found, only one is allowed")

	// ErrProcessingFile is returned when there is an error processing the file.
	ErrProcessingFile = errors.New("error processing file, please check the file format and content")

	// ErrTemplateNotFound is returned when a topology references a template file that is not in the library.
	ErrTemplateNotFound = errors.New("template file referenced by topology not found in library")
)

// NewErrResourceAlreadyExists creates a new error indicating that a resource already exists in the result.
func NewErrResourceAlreadyExists(resourceType, name string) error {
	return fmt.Errorf("%w: %s with name `%s` already exists", ErrResourceAlreadyExists, resourceType, name)
}

// NewErrNoNameProvided creates a new error indicating that no name was provided for the resource.
func NewErrNoNameProvided(resourceType string) error {
	return fmt.Errorf("%w: %s", ErrNoNameProvided, resourceType)
}

// NewErrorUnmarshaling creates a new error indicating that unmarshaling failed.
func NewErrorUnmarshaling(detail string) error {
	return fmt.Errorf("%w: %s", ErrUnmarshaling, detail)
}

// NewErrTemplateNotFound creates a new error indicating a missing template file.
func NewErrTemplateNotFound(topology, stage, path string) error {
	return fmt.Errorf("%w: topology `%s` stage `%s` references `%s`", ErrTemplateNotFound, topology, stage, path)
}

// Result is the structure that gets built by scanning the library files.
type Result struct {
	LibTopologies                 map[string]*LibTopology
	LibDefaultValues              map[string]*LibDefaultValuesDefaults
	Metadata                      *LibMetadata
	libDefaultValuesFileProcessed bool
}

// NewResult creates a new Result struct with initialized maps for each resource type.
func NewResult() *Result {
	return &Result{
		LibTopologies:    make(map[string]*LibTopology),
		LibDefaultValues: make(map[string]*LibDefaultValuesDefaults),
		Metadata:         nil,
	}
}

// processFunc is the function signature that is used to process different types of lib file.
type processFunc func(result *Result, data Unmarshaler) error

// Client is the client that is used to process the library files.
type Client struct {
	fs fs.FS
}

// NewClient creates a new Client with the provided filesystem.
func NewClient(fs fs.FS) *Client {
	return &Client{
		fs: fs,
	}
}

// FS returns the filesystem the client reads from.
// Template documents referenced by topologies are read from here lazily.
func (client *Client) FS() fs.FS {
	return client.fs
}

// Metadata returns the metadata of the library.
func (client *Client) Metadata() (*LibMetadata, error) {
	metadataFile, err := client.fs.Open(foundryLibraryMetadataFile)

	var pe *fs.PathError

	if errors.As(err, &pe) {
		return &LibMetadata{
			Name:         "",
			DisplayName:  "",
			Description:  "",
			Path:         "",
			Dependencies: make([]LibMetadataDependency, 0),
		}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("ProcessorClient.Metadata: error opening metadata file: %w", err)
	}

	defer metadataFile.Close() // nolint: errcheck

	data, err := io.ReadAll(metadataFile)
	if err != nil {
		return nil, fmt.Errorf("ProcessorClient.Metadata: error reading metadata file: %w", err)
	}

	unmar := NewUnmarshaler(data, ".json")
	metadata := new(LibMetadata)

	err = unmar.Unmarshal(metadata)
	if err != nil {
		return nil, errors.Join(NewErrorUnmarshaling(foundryLibraryMetadataFile), err)
	}

	for _, dep := range metadata.Dependencies {
		switch {
		case dep.Path != "" && dep.Ref != "" && dep.CustomURL == "":
			continue
		case dep.Path == "" && dep.Ref == "" && dep.CustomURL != "":
			continue
		default:
			return nil, fmt.Errorf(
				"ProcessorClient.Metadata: invalid dependency, either path & ref should be set, or custom_url: %v",
				dep,
			)
		}
	}

	return metadata, nil
}

// Process reads the library files and processes them into a Result.
// Pass in a pointer to a Result struct to store the processed data,
// create a new *Result with NewResult().
func (client *Client) Process(res *Result) error {
	metad, err := client.Metadata()
	if err != nil {
		return fmt.Errorf("ProcessorClient.Process: error getting metadata: %w", err)
	}

	res.Metadata = metad

	if err := fs.WalkDir(client.fs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("ProcessorClient.Process: error walking directory %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		// Skip files where path contains base of the `FOUNDRYLIB_DIR`.
		libDirBase := filepath.Base(environment.FoundryLibDir())
		if strings.Contains(path, libDirBase) {
			return nil
		}
		if !slices.Contains(supportedFileTypes, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		file, err := client.fs.Open(path)
		if err != nil {
			return fmt.Errorf("ProcessorClient.Process: error opening file %s: %w", path, err)
		}
		return classifyLibFile(res, file, d.Name())
	}); err != nil {
		return err //nolint:wrapcheck
	}

	return client.checkTemplateFiles(res)
}

// checkTemplateFiles verifies that every stage's template document exists
// in the library filesystem.
func (client *Client) checkTemplateFiles(res *Result) error {
	for name, topo := range res.LibTopologies {
		for _, stage := range topo.Stages {
			if _, err := fs.Stat(client.fs, stage.TemplateFile); err != nil {
				return NewErrTemplateNotFound(name, stage.Name, stage.TemplateFile)
			}
		}
	}
	return nil
}

// Template reads and returns the raw bytes of a template document from the library.
func (client *Client) Template(path string) ([]byte, error) {
	f, err := client.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ProcessorClient.Template: error opening template %s: %w", path, err)
	}
	defer f.Close() // nolint: errcheck
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("ProcessorClient.Template: error reading template %s: %w", path, err)
	}
	return data, nil
}

// classifyLibFile identifies the supplied file and calls the appropriate processFunc.
func classifyLibFile(res *Result, file fs.File, name string) error {
	err := error(nil)

	switch n := strings.ToLower(name); {
	case TopologyDefinitionRegex.MatchString(n):
		err = readAndProcessFile(res, file, processTopology)

	case DefaultValuesRegex.MatchString(n):
		err = readAndProcessFile(res, file, processDefaultValues)
	}

	if err != nil {
		err = errors.Join(
			ErrProcessingFile, err,
		)
	}

	return err
}

// processTopology is a processFunc that reads the topology definition
// bytes, processes, then adds the created LibTopology to the result.
func processTopology(res *Result, unmar Unmarshaler) error {
	topo := new(LibTopology)
	if err := unmar.Unmarshal(topo); err != nil {
		return errors.Join(NewErrorUnmarshaling("topology definition"), err)
	}

	if topo.Name == "" {
		return NewErrNoNameProvided("topology")
	}

	if _, exists := res.LibTopologies[topo.Name]; exists {
		return NewErrResourceAlreadyExists("topology", topo.Name)
	}

	res.LibTopologies[topo.Name] = topo

	return nil
}

// processDefaultValues is a processFunc that reads the default values
// bytes, processes, then adds the created defaults to the result.
func processDefaultValues(res *Result, unmar Unmarshaler) error {
	if res.libDefaultValuesFileProcessed {
		return ErrMultipleDefaultValuesFileFound
	}

	ldv := new(LibDefaultValues)
	if err := unmar.Unmarshal(ldv); err != nil {
		return errors.Join(NewErrorUnmarshaling("default values"), err)
	}

	for _, def := range ldv.Defaults {
		def := def
		if def.DefaultName == "" {
			return NewErrNoNameProvided("default value")
		}

		if _, exists := res.LibDefaultValues[def.DefaultName]; exists {
			return NewErrResourceAlreadyExists("default value", def.DefaultName)
		}

		res.LibDefaultValues[def.DefaultName] = &def
	}

	res.libDefaultValuesFileProcessed = true

	return nil
}

// readAndProcessFile reads the file bytes at the supplied path and processes it using the supplied processFunc.
func readAndProcessFile(res *Result, file fs.File, processFn processFunc) error {
	s, err := file.Stat()
	if err != nil {
		return err //nolint:wrapcheck
	}

	data := make([]byte, s.Size())

	defer file.Close() // nolint: errcheck

	if _, err := file.Read(data); err != nil {
		return err //nolint:wrapcheck
	}

	ext := filepath.Ext(s.Name())
	unmar := NewUnmarshaler(data, ext)

	if err := processFn(res, unmar); err != nil {
		return err
	}

	return nil
}
