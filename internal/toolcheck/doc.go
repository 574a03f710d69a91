// SPDX-License-Identifier: MPL-2.0

// Package toolcheck probes external tools through an ordered list of
// detection strategies and reports normalized results.
//
// A probe that fails is a normal outcome, not an exception: timeouts,
// non-zero exits and spawn failures all collapse to "unavailable" so one
// slow or missing optional tool cannot abort a batch. Criticality is
// enforced only by CheckCriticalTools, which fails its whole batch when
// any critical tool is undetectable.
package toolcheck
