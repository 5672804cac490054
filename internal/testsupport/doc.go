// Package testsupport holds fixtures shared by package tests: throwaway
// configurations, corpus trees, tar archives and history stores.
package testsupport
