// Package settings provides layered configuration for rester.
//
// A Settings value resolves keys through two read-only layers: per-request
// overrides (parsed from @key lines in the request text) shadow the base
// configuration loaded from a rester config file. The base layer is safe
// to share across concurrent requests.
package settings
