// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"encoding/json"
	"net/http"
	"runtime"
)

type platform struct {
	Lang           string `json:"lang"`
	PackageVersion string `json:"packageVersion"`
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	Runtime        string `json:"runtime"`
	RuntimeVersion string `json:"runtimeVersion"`
}

// defaultHeaders returns the headers sent with every request unless a
// call overrides them.
func defaultHeaders(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", "Lithic/Go "+Version)
	h.Set("Authorization", apiKey)
	p, _ := json.Marshal(platform{
		Lang:           "go",
		PackageVersion: Version,
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
		Runtime:        "go",
		RuntimeVersion: runtime.Version(),
	})
	h.Set("X-Stainless-Client-User-Agent", string(p))
	return h
}
