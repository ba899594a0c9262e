// SPDX-License-Identifier: MIT

package artifact

import (
	"fmt"
	"path/filepath"
)

// Names builds artifact paths for one subject under Dir.
type Names struct {
	Dir     string
	Subject string
}

// Graph returns <subject>_<mode>.csr.zst.
func (n Names) Graph(mode string) string { return n.join(fmt.Sprintf("%s.csr.zst", mode)) }

// LCC returns <subject>_lcc.npy.
func (n Names) LCC() string { return n.join("lcc.npy") }

// Invariant returns <subject>_<name>.npy.
func (n Names) Invariant(name string) string { return n.join(name + ".npy") }

// Embedding returns <subject>_embed.npy.
func (n Names) Embedding() string { return n.join("embed.npy") }

// Regions returns <subject>_regions.npy (region labels of a region graph).
func (n Names) Regions() string { return n.join("regions.npy") }

func (n Names) join(suffix string) string {
	return filepath.Join(n.Dir, n.Subject+"_"+suffix)
}
