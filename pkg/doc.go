// Package pkg provides the core libraries for the practicemap practice
// catalog explorer.
//
// # Overview
//
// Practicemap models continuous delivery practices as a dependency graph:
// adopting a practice requires the practices it depends on. The pkg directory
// is organized into three main areas:
//
//  1. Domain logic: [catalog] (validation), [tree] (materialization),
//     [adoption] (progress tracking), [layout] (rendering order)
//  2. Infrastructure: [cache], [repo], [config], [state], [httputil]
//  3. Output: [render] (DOT/SVG diagrams)
//
// # Architecture
//
// The typical data flow:
//
//	catalog.json (authored)
//	         ↓
//	    [catalog] package (load + validate)
//	         ↓
//	    [tree] package (materialize rooted tree, deepest-wins dedup)
//	         ↓
//	    [layout] package (barycenter crossing reduction)
//	         ↓
//	    [render] package / HTTP API / terminal output
//
// Adoption state flows alongside: [adoption] tracks the adopted set, [state]
// encodes it for URLs and storage, and trees are annotated at display time
// rather than during materialization.
package pkg
