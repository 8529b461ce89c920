package project

import (
	"github.com/panbanda/modsplit/pkg/analyzer/funcdep"
	"github.com/panbanda/modsplit/pkg/models"
)

// CrossFileDependencies finds calls from a function in one file to a
// function defined only in another. results must be in path order: when
// several files define the same name, the first one owns it. A call to a
// name the calling file defines itself is local and never reported.
func CrossFileDependencies(results []*funcdep.FileResult) []models.CrossFileDependency {
	owner := make(map[string]string)
	for _, r := range results {
		for _, fn := range r.Report.Functions {
			if _, ok := owner[fn.Name]; !ok {
				owner[fn.Name] = r.Report.Path
			}
		}
	}

	deps := make([]models.CrossFileDependency, 0)
	for _, r := range results {
		local := make(map[string]bool, len(r.Report.Functions))
		for _, fn := range r.Report.Functions {
			local[fn.Name] = true
		}

		for _, fn := range r.Report.Functions {
			for _, callee := range r.CallSites[fn.Name] {
				if local[callee] {
					continue
				}
				file, ok := owner[callee]
				if !ok {
					continue
				}
				deps = append(deps, models.CrossFileDependency{
					Caller:     fn.Name,
					CallerFile: r.Report.Path,
					Callee:     callee,
					CalleeFile: file,
				})
			}
		}
	}
	return deps
}
