// Package profile provides optional runtime profiling for cfgtree.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof ./...
//
// Without the tag every [Profiler] is inert and [Modes] is empty, so the
// package adds nothing to the default binary.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/cfgtree"}
//	defer p.Start().Stop()
//
// Profiles are written by [github.com/pkg/profile] into Path using the mode
// as file name (cpu.pprof, mem.pprof, ...). Inspect them with:
//
//	go tool pprof -http=: /tmp/cfgtree/cpu.pprof
//
// A tagged build also imports [net/http/pprof], which registers its handlers
// on [net/http.DefaultServeMux].
package profile
