// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package foundrylib provides the data model and processing for catalogs of
// Azure AI Foundry deployment topologies.
//
// A topology catalog is a set of library members, each containing topology
// definitions (ordered ARM deployment stages with parameter and output
// specifications), compiled ARM template documents, default parameter
// values, and a metadata file declaring dependencies on other library
// members.
//
// Use NewFoundryLib to create a new instance, fetch libraries with
// FetchLibraryByGetterString or the LibraryReference types, then call Init
// to process them. The pkg/deployment package turns a processed topology
// into an executable deployment plan.
package foundrylib
