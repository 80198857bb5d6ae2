// Package testsupport provides shared fixtures for package tests: temp-dir
// backed configurations and small file helpers.
package testsupport
