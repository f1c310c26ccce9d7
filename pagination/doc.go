// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package pagination contains the page payloads returned by list
// endpoints. Each page knows its items and how to derive the query
// parameters of the next page from its own content; the client merges
// those parameters over the original call's parameters to fetch it.
package pagination
