// Package file stores the company profile as a JSON document on disk.
//
// The record is written to <dir>/code-g-company-profile.json through a
// temporary file and rename, so readers never see a partial write. Edits
// made outside the process are reported through Watch.
package file
