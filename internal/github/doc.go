// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package github provides a GitHub REST API client for fetching pull request
// conversations. It handles authentication, page/per_page pagination, error
// classification, and rate-limit header tracking, exposing normalized types
// that the rest of the application consumes.
package github
