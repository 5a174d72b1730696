// Package batch runs the contract ingestion pipeline: discover candidate
// files under the allowed roots, extract a structured contract from each,
// create the record remotely, attach the source document and relocate the
// file. A failed file is recorded and the run continues; the run as a
// whole always completes with a full result.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docbridge/internal/config"
	"docbridge/internal/domain"
	"docbridge/internal/fsguard"
	"docbridge/internal/glpi"
	"docbridge/internal/port"
)

// emptyRunSummary is returned without an LLM call when discovery finds
// nothing to do.
const emptyRunSummary = "No files to process were found in the configured folders."

// ContractProcessor turns one document file into a structured contract.
type ContractProcessor interface {
	Process(ctx context.Context, path string) (*domain.ExtractedContract, error)
}

// Pipeline executes one batch run at a time. It owns no state between
// runs; each Run builds its own outcome list and record-client session.
type Pipeline struct {
	files      *config.FilesConfig
	guard      *fsguard.Guard
	translator *fsguard.Translator
	processor  ContractProcessor
	clients    port.RecordClientFactory
	reporter   *Reporter
}

// NewPipeline wires the batch pipeline from its collaborators.
func NewPipeline(
	files *config.FilesConfig,
	guard *fsguard.Guard,
	translator *fsguard.Translator,
	processor ContractProcessor,
	clients port.RecordClientFactory,
	reporter *Reporter,
) *Pipeline {
	return &Pipeline{
		files:      files,
		guard:      guard,
		translator: translator,
		processor:  processor,
		clients:    clients,
		reporter:   reporter,
	}
}

// Run processes every candidate file and returns the aggregate result.
// When path is empty, every configured allowed root is scanned; otherwise
// only the given path is considered, and a rejected path short-circuits
// the run with a single synthetic error outcome.
func (p *Pipeline) Run(ctx context.Context, path string) (*domain.BatchResult, error) {
	candidates, synthetic := p.discover(path)
	if synthetic != nil {
		result := &domain.BatchResult{Results: []domain.BatchFileOutcome{*synthetic}}
		result.Summary = p.reporter.Summarize(ctx, result.Results)
		return result, nil
	}
	if len(candidates) == 0 {
		return &domain.BatchResult{Results: []domain.BatchFileOutcome{}, Summary: emptyRunSummary}, nil
	}

	client := p.clients.NewClient()
	defer client.Close(ctx)

	results := make([]domain.BatchFileOutcome, 0, len(candidates))
	for _, file := range candidates {
		results = append(results, p.processFile(ctx, client, file))
	}

	return &domain.BatchResult{
		Results: results,
		Summary: p.reporter.Summarize(ctx, results),
	}, nil
}

// discover lists the files to process. It returns either the candidate
// list or a single synthetic outcome that stands in for the whole run.
func (p *Pipeline) discover(path string) ([]string, *domain.BatchFileOutcome) {
	if path != "" {
		return p.discoverExplicit(path)
	}

	allowed := extensionSet(p.files.AllowedExtensions)
	var candidates []string
	for _, root := range p.files.AllowedRoots {
		entries, err := os.ReadDir(root)
		if err != nil {
			// An unreadable configured root is skipped, not fatal:
			// the other roots still deserve a scan.
			continue
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && extensionAllowed(entry.Name(), allowed) {
				candidates = append(candidates, filepath.Join(root, entry.Name()))
			}
		}
	}
	return candidates, nil
}

func (p *Pipeline) discoverExplicit(path string) ([]string, *domain.BatchFileOutcome) {
	fail := func(code int, msg string) ([]string, *domain.BatchFileOutcome) {
		out := &domain.BatchFileOutcome{
			File:   p.translator.ToExternalView(path),
			Status: domain.OutcomePending,
		}
		out.SetError(code, msg)
		return nil, out
	}

	allowedPath, err := p.guard.IsAllowed(path)
	if err != nil {
		return fail(domain.CodePathNotAllowed, err.Error())
	}
	if !allowedPath {
		return fail(domain.CodePathNotAllowed, fmt.Sprintf("path %s is outside the allowed folders", path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(domain.CodePathNotFound, fmt.Sprintf("path %s does not exist", path))
	}

	allowed := extensionSet(p.files.AllowedExtensions)
	if !info.IsDir() {
		if !extensionAllowed(path, allowed) {
			return fail(domain.CodeExtensionNotAllowed,
				fmt.Sprintf("extension of %s is not in the allowed list", filepath.Base(path)))
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fail(domain.CodePathNotAllowed, fmt.Sprintf("cannot list %s: %v", path, err))
	}
	var candidates []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && extensionAllowed(entry.Name(), allowed) {
			candidates = append(candidates, filepath.Join(path, entry.Name()))
		}
	}
	return candidates, nil
}

// processFile runs the per-file state machine: pending, then success or
// error, then relocation. The returned outcome is terminal.
func (p *Pipeline) processFile(ctx context.Context, client port.RecordClient, file string) domain.BatchFileOutcome {
	outcome := domain.BatchFileOutcome{
		File:   p.translator.ToExternalView(file),
		Status: domain.OutcomePending,
	}

	contract, err := p.processor.Process(ctx, file)
	switch {
	case err != nil:
		outcome.SetError(classifyError(err), err.Error())
	case contract.PromptInjectionDetected:
		// The extracted content cannot be trusted as input to a
		// downstream call, so the record is never created.
		outcome.SetError(domain.CodePromptInjection,
			fmt.Sprintf("possible prompt injection detected in %s", filepath.Base(file)))
	default:
		p.createRecord(ctx, client, file, contract, &outcome)
	}

	p.relocate(file, &outcome)
	return outcome
}

func (p *Pipeline) createRecord(ctx context.Context, client port.RecordClient, file string, contract *domain.ExtractedContract, outcome *domain.BatchFileOutcome) {
	created, err := client.CreateContract(ctx, glpi.ContractCreateFields(contract))
	if err != nil {
		outcome.SetError(classifyError(err), err.Error())
		return
	}
	outcome.Status = domain.OutcomeSuccess
	outcome.ContractID = &created.ID
	outcome.ContractName = created.Name

	// Attachment failure is visible but never demotes a created record
	// back to error.
	if err := client.AttachDocument(ctx, file, created.ID, "Contract"); err != nil {
		outcome.DocumentAttached = false
		outcome.DocumentError = err.Error()
	} else {
		outcome.DocumentAttached = true
	}
}

// relocate moves the source file into the success or errors folder with a
// collision-safe name. A relocation failure always wins: a file that
// silently fails to move is worse than a processing failure that is
// merely mis-filed.
func (p *Pipeline) relocate(file string, outcome *domain.BatchFileOutcome) {
	folder := p.files.FolderSuccess
	if outcome.Status == domain.OutcomeError {
		folder = p.files.FolderErrors
	}
	if folder == "" {
		return
	}

	dest := filepath.Join(folder, relocatedName(filepath.Base(file)))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		p.markRelocationFailed(outcome, err)
		return
	}
	if err := os.Rename(file, dest); err != nil {
		p.markRelocationFailed(outcome, err)
		return
	}
	outcome.RelocatedTo = p.translator.ToExternalView(dest)
}

func (p *Pipeline) markRelocationFailed(outcome *domain.BatchFileOutcome, err error) {
	outcome.Status = domain.OutcomeError
	msg := fmt.Sprintf("relocating file: %v", err)
	if outcome.Error != "" {
		outcome.Error += "; " + msg
	} else {
		outcome.Error = msg
	}
}

// relocatedName prefixes the original name with a timestamp and a short
// random suffix so repeated ingestions of the same file never collide
// while the original name stays recognizable.
func relocatedName(base string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102150405"), suffix, base)
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return set
}

func extensionAllowed(name string, allowed map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := allowed[ext]
	return ok
}
