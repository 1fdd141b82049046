package operations

import (
	"context"
	"time"

	"github.com/codereef/lspbridge/internal/diagnostics"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/scan"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// batchSize and batchPause bound get_all_diagnostics' fan-out so a large
// workspace doesn't flood every server with concurrent requests at once.
const (
	batchSize  = 10
	batchPause = 100 * time.Millisecond
)

// FileDiagnostics pairs one file's path with its diagnostics.
type FileDiagnostics struct {
	Path        string               `json:"path"`
	Diagnostics []protocol.Diagnostic `json:"diagnostics"`
}

// AllDiagnosticsResult is get_all_diagnostics' structured output. Exactly
// one of Files or BySeverity is populated, depending on groupBySeverity.
type AllDiagnosticsResult struct {
	FilesScanned int                             `json:"filesScanned"`
	Files        []FileDiagnostics              `json:"files,omitempty"`
	BySeverity   map[string][]FileDiagnostics   `json:"bySeverity,omitempty"`
	Error        *errorInfo                      `json:"error,omitempty"`
}

// GetAllDiagnostics enumerates every file beneath each configured
// server's root (honoring .gitignore, a depth cap, and the caller's
// include/exclude globs), fetches diagnostics for each in small batches,
// and reports only files with non-empty results.
func (c *Core) GetAllDiagnostics(ctx context.Context, includeGlobs, excludeGlobs []string, maxPerFile int, groupBySeverity, includeSource bool) AllDiagnosticsResult {
	ready, err := c.Router.EnsureAllServersReady(ctx)
	if err != nil {
		return AllDiagnosticsResult{Error: describeError(err)}
	}

	var files []FileDiagnostics
	scanned := 0
	visited := map[string]bool{}

	addFile := func(path string, diags []protocol.Diagnostic) {
		if len(diags) == 0 {
			return
		}
		if maxPerFile > 0 && len(diags) > maxPerFile {
			diags = diags[:maxPerFile]
		}
		if !includeSource {
			for i := range diags {
				diags[i].Source = ""
			}
		}
		files = append(files, FileDiagnostics{Path: path, Diagnostics: diags})
	}

	for _, r := range ready {
		opts := scan.Options{Extensions: r.Extensions, IncludeGlobs: includeGlobs, ExcludeGlobs: excludeGlobs}
		paths := scan.CachedAll(r.State.RootDir, opts)

		for i := 0; i < len(paths); i += batchSize {
			end := i + batchSize
			if end > len(paths) {
				end = len(paths)
			}
			batch := paths[i:end]

			for _, p := range batch {
				scanned++
				visited[p] = true
				diags, err := diagnostics.Get(ctx, r.State, p)
				if err != nil {
					continue
				}
				addFile(p, diags)
			}

			if end < len(paths) {
				select {
				case <-time.After(batchPause):
				case <-ctx.Done():
					return AllDiagnosticsResult{FilesScanned: scanned, Files: files, Error: describeError(ctx.Err())}
				}
			}
		}

		// The filesystem scan above is bounded by extension filters, globs,
		// and a depth cap; a file this server has already published
		// diagnostics for but the scan didn't revisit (outside those
		// filters, or beyond the depth cap) is still reported, appended in
		// the cache's original publish order.
		for _, entry := range diagnostics.All(r.State) {
			p := uriconv.URIToPath(entry.URI)
			if visited[p] {
				continue
			}
			visited[p] = true
			addFile(p, entry.Diagnostics)
		}
	}

	if !groupBySeverity {
		return AllDiagnosticsResult{FilesScanned: scanned, Files: files}
	}

	grouped := map[string][]FileDiagnostics{}
	for _, fd := range files {
		bySev := map[protocol.DiagnosticSeverity][]protocol.Diagnostic{}
		for _, d := range fd.Diagnostics {
			sev := d.Severity
			if sev == 0 {
				sev = protocol.SeverityError
			}
			bySev[sev] = append(bySev[sev], d)
		}
		for sev, diags := range bySev {
			name := severityName(sev)
			grouped[name] = append(grouped[name], FileDiagnostics{Path: fd.Path, Diagnostics: diags})
		}
	}

	return AllDiagnosticsResult{FilesScanned: scanned, BySeverity: grouped}
}

func severityName(s protocol.DiagnosticSeverity) string {
	switch s {
	case protocol.SeverityError:
		return "error"
	case protocol.SeverityWarning:
		return "warning"
	case protocol.SeverityInformation:
		return "information"
	case protocol.SeverityHint:
		return "hint"
	default:
		return "error"
	}
}
