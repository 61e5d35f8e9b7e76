//go:build gpu

package preview

// Build with -tags gpu to rasterize previews through gg's GPU accelerator.
// gg falls back to the CPU when no adapter is available.
import _ "github.com/gogpu/gg/gpu"
