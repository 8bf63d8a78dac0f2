// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Command pullpal fetches complete GitHub pull request conversations and
// saves them to local Markdown or JSON files.
//
// Usage:
//
//	pullpal fetch --pr 123
//	pullpal fetch --prs 123,124,125
//	pullpal fetch --latest 10 --state open
//	pullpal fetch --owner golang --repo go --pr 123 --format json
//
// The GitHub token is read from --token, the GITHUB_TOKEN environment
// variable, or a .env file in the working directory.
package main
