// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package foundrylib

import (
	"context"
	"io/fs"
	"strings"

	"github.com/Azure/foundrylib/internal/processor"
)

// Metadata is the identity of a processed library member.
type Metadata struct {
	name         string
	displayName  string
	description  string
	dependencies []LibraryReference
	path         string
}

// LibraryReference is an interface that represents a dependency of a library member.
// It can be fetched from either a custom go-getter URL or from the Foundry topology catalog.
type LibraryReference interface {
	// Fetch fetches the library member to the destination directory and returns it as an fs.FS.
	Fetch(ctx context.Context, destinationDirectory string) (fs.FS, error)
	// FetchWithDependencies fetches the library member and all of its dependencies.
	FetchWithDependencies(ctx context.Context) (LibraryFetchResults, error)
	String() string
}

// LibraryFetchResults is the ordered set of filesystems produced by a
// dependency-closure fetch. Pass to FoundryLib.Init.
type LibraryFetchResults []fs.FS

var _ LibraryReference = (*FoundryLibraryReference)(nil)
var _ LibraryReference = (*CustomLibraryReference)(nil)

// FoundryLibraryReference is a struct that represents a dependency of a library member
// that is fetched from the Foundry topology catalog.
type FoundryLibraryReference struct {
	path string
	ref  string
}

func NewFoundryLibraryReference(path, ref string) *FoundryLibraryReference {
	return &FoundryLibraryReference{
		path: path,
		ref:  ref,
	}
}

// Fetch fetches the library member from the Foundry topology catalog.
func (m *FoundryLibraryReference) Fetch(ctx context.Context, destinationDirectory string) (fs.FS, error) {
	return FetchFoundryLibraryMember(ctx, destinationDirectory, m.path, m.ref)
}

// FetchWithDependencies fetches the library member and all of its dependencies.
func (m *FoundryLibraryReference) FetchWithDependencies(ctx context.Context) (LibraryFetchResults, error) {
	return fetchWithDependencies(ctx, m)
}

// String returns the formatted path and the tag of the library member.
func (m *FoundryLibraryReference) String() string {
	return strings.Join([]string{m.path, m.ref}, "@")
}

func (m *FoundryLibraryReference) Path() string {
	return m.path
}

func (m *FoundryLibraryReference) Tag() string {
	return m.ref
}

// CustomLibraryReference is a struct that represents a dependency of a library member
// that is fetched from a custom go-getter URL.
type CustomLibraryReference struct {
	url string
}

func NewCustomLibraryReference(url string) *CustomLibraryReference {
	return &CustomLibraryReference{
		url: url,
	}
}

// Fetch fetches the library member from the custom go-getter URL.
func (m *CustomLibraryReference) Fetch(ctx context.Context, destinationDirectory string) (fs.FS, error) {
	return FetchLibraryByGetterString(ctx, m.url, destinationDirectory)
}

// FetchWithDependencies fetches the library member and all of its dependencies.
func (m *CustomLibraryReference) FetchWithDependencies(ctx context.Context) (LibraryFetchResults, error) {
	return fetchWithDependencies(ctx, m)
}

// String returns the URL of the custom go-getter.
func (m *CustomLibraryReference) String() string {
	return m.url
}

func NewMetadata(in *processor.LibMetadata) *Metadata {
	dependencies := make([]LibraryReference, len(in.Dependencies))
	for i, dep := range in.Dependencies {
		dependencies[i] = NewMetadataDependencyFromProcessor(dep)
	}
	return &Metadata{
		name:         in.Name,
		displayName:  in.DisplayName,
		description:  in.Description,
		dependencies: dependencies,
		path:         in.Path,
	}
}

func NewMetadataDependencyFromProcessor(in processor.LibMetadataDependency) LibraryReference {
	if in.CustomURL != "" {
		return &CustomLibraryReference{
			url: in.CustomURL,
		}
	}
	return &FoundryLibraryReference{
		path: in.Path,
		ref:  in.Ref,
	}
}

func (m *Metadata) Name() string {
	return m.name
}

func (m *Metadata) DisplayName() string {
	return m.displayName
}

func (m *Metadata) Description() string {
	return m.description
}

func (m *Metadata) Dependencies() []LibraryReference {
	return m.dependencies
}

func (m *Metadata) Path() string {
	return m.path
}
