// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package foundrylib

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/Azure/foundrylib/internal/environment"
	"github.com/Azure/foundrylib/internal/processor"
	"github.com/hashicorp/go-getter/v2"
)

// FetchAllLibrariesWithDependencies takes a library reference, fetches it, and then fetches all of its dependencies.
// The dependencies are fetched into numbered subdirectories of the base directory.
// Example usage:
//
//	fl := foundrylib.NewFoundryLib(nil)
//	thisLib := foundrylib.NewCustomLibraryReference("path/to/library")
//	libs, err := foundrylib.FetchAllLibrariesWithDependencies(ctx, ".foundrylib", 0, thisLib, make(foundrylib.LibraryReferences, 0, 5))
//	// ... handle error
//	err = fl.Init(ctx, libs.FSs()...)
//	// ... handle error
func FetchAllLibrariesWithDependencies(ctx context.Context, baseDir string, i int, lib LibraryReference, libs LibraryReferences) (LibraryReferences, error) {
	dir := filepath.Join(baseDir, strconv.Itoa(i))
	f, err := lib.Fetch(ctx, dir)
	if err != nil {
		return nil, err
	}
	pscl := processor.NewClient(f)
	libmeta, err := pscl.Metadata()
	if err != nil {
		return nil, err
	}
	meta := NewMetadata(libmeta)
	// for each dependency, recurse using this function
	for _, dep := range meta.Dependencies() {
		i++
		libs, err = FetchAllLibrariesWithDependencies(ctx, baseDir, i, dep, libs)
		if err != nil {
			return nil, err
		}
	}
	// add the current library reference to the list
	return addLibraryReferenceToSlice(libs, lib, f), nil
}

// LibraryReferences is an ordered, deduplicated list of fetched library references.
type LibraryReferences []fetchedLibraryReference

type fetchedLibraryReference struct {
	ref LibraryReference
	fs  fs.FS
}

// FSs returns the filesystems of the fetched libraries, in dependency order.
func (l LibraryReferences) FSs() []fs.FS {
	res := make([]fs.FS, len(l))
	for i, r := range l {
		res[i] = r.fs
	}
	return res
}

// fetchWithDependencies fetches the reference closure into the default base
// directory and returns the filesystems in dependency order.
func fetchWithDependencies(ctx context.Context, ref LibraryReference) (LibraryFetchResults, error) {
	// destination directories are joined to the base directory by
	// FetchLibraryByGetterString, so the closure walk uses relative paths.
	refs, err := FetchAllLibrariesWithDependencies(ctx, "", 0, ref, make(LibraryReferences, 0, 5))
	if err != nil {
		return nil, fmt.Errorf("fetchWithDependencies: could not fetch `%s`: %w", ref.String(), err)
	}
	return refs.FSs(), nil
}

// addLibraryReferenceToSlice adds a library reference to a slice if it does not already exist.
func addLibraryReferenceToSlice(libs LibraryReferences, lib LibraryReference, f fs.FS) LibraryReferences {
	if exists := slices.ContainsFunc(libs, func(l fetchedLibraryReference) bool {
		return l.ref.String() == lib.String()
	}); exists {
		return libs
	}

	return append(libs, fetchedLibraryReference{ref: lib, fs: f})
}

// FetchFoundryLibraryMember fetches a library member from the Foundry
// topology catalog git repository, at the supplied path and ref.
// The destination directory will be appended to the base directory
// (see environment.FoundryLibDir).
func FetchFoundryLibraryMember(ctx context.Context, destinationDirectory, path, ref string) (fs.FS, error) {
	q := url.Values{}
	q.Add("depth", "1")
	q.Add("ref", ref)
	src := environment.FoundryLibraryGitUrl() + "//" + path + "?" + q.Encode()
	return FetchLibraryByGetterString(ctx, src, destinationDirectory)
}

// FetchLibraryByGetterString fetches a library from a go-getter URL string.
// The destination directory is cleaned before fetching.
func FetchLibraryByGetterString(ctx context.Context, getterString, destinationDirectory string) (fs.FS, error) {
	dst := filepath.Join(environment.FoundryLibDir(), destinationDirectory)
	if err := os.RemoveAll(dst); err != nil {
		return nil, fmt.Errorf("FetchLibraryByGetterString: error cleaning destination directory %s: %w", dst, err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("FetchLibraryByGetterString: error getting working directory: %w", err)
	}

	client := getter.Client{}
	req := &getter.Request{
		Src: getterString,
		Dst: dst,
		Pwd: wd,
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("FetchLibraryByGetterString: error fetching `%s`: %w", getterString, err)
	}

	return os.DirFS(res.Dst), nil
}
