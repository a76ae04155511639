package main

// version is stamped by the release build via
// -ldflags "-X main.version=...". The default marks a source build.
var version = "0.3.0-dev"

func getVersionString() string {
	return version
}
