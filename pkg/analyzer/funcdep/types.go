package funcdep

import "github.com/panbanda/modsplit/pkg/models"

// FileResult is the outcome of analyzing one file. Report is what callers
// publish; CallSites feeds the cross-file pass.
type FileResult struct {
	Report *models.AnalysisReport `json:"report"`
	// CallSites maps each resolved function to the identifiers its body
	// uses in call position.
	CallSites map[string][]string `json:"callSites"`
}
