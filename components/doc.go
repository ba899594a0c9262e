// SPDX-License-Identifier: MIT

// Package components labels the connected components of a symmetric sparse
// graph and selects its largest connected component (LCC).
//
// Labeling policy
//
//   - Components are discovered by iterative BFS (package bfs) seeded in
//     ascending vertex order, so each component is first reached from its
//     smallest vertex id.
//   - Labels are ranked by size, largest first; ties go to the component
//     with the smaller minimal vertex id. Label 0 is therefore the LCC.
//   - Vertices with no neighbor other than themselves are not components:
//     they share one "unconnected" bucket whose label is len(Sizes), after
//     every real component. The bucket is never eligible as the LCC.
//
// Complexity: O(n + m) time, O(n) memory (labels, visited set, queue).
package components
