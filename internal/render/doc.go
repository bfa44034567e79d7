// Package render assembles the final Markdown document from the generated
// content and resolves image markers against the frames that were actually
// captured. A PDF copy is produced with pandoc when the binary is
// available; PDF failures never fail the task.
package render
