package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/den-cli/den/internal/domain"
)

// ValidatePlistInput contains the parameters for validating a definition file.
type ValidatePlistInput struct {
	Path   string // Definition file
	Domain string // Optional; enables naming checks
}

// ValidatePlistOutput contains the validation result.
type ValidatePlistOutput struct {
	Config   *domain.TaskConfig
	Warnings []string // Problems that do not stop launchd from loading the file
}

// ValidatePlist checks that a definition file decodes and satisfies the
// TaskConfig invariants.
type ValidatePlist struct {
	codec domain.PlistCodec
}

// NewValidatePlist creates a new ValidatePlist use case.
func NewValidatePlist(codec domain.PlistCodec) *ValidatePlist {
	return &ValidatePlist{codec: codec}
}

// Execute validates the file at in.Path.
func (uc *ValidatePlist) Execute(_ context.Context, in ValidatePlistInput) (*ValidatePlistOutput, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, &domain.FilesystemError{Op: "read", Path: in.Path, Err: err}
	}

	cfg, err := uc.codec.Decode(string(data))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := &ValidatePlistOutput{Config: cfg}
	if in.Domain != "" {
		out.Warnings = namingWarnings(in.Path, in.Domain, cfg.Label)
	}
	return out, nil
}

// namingWarnings reports definitions that den would not manage under domainName.
func namingWarnings(path, domainName, label string) []string {
	var warnings []string
	base := filepath.Base(path)
	if !domain.MatchesDomain(base, domainName) {
		warnings = append(warnings, fmt.Sprintf("file name %s does not match %s*%s", base, domain.DomainPrefix(domainName), domain.PlistExt))
	}
	if !strings.HasPrefix(label, domain.DomainPrefix(domainName)) {
		warnings = append(warnings, fmt.Sprintf("label %s is outside domain %s", label, domainName))
	}
	if want := strings.TrimSuffix(base, domain.PlistExt); label != want {
		warnings = append(warnings, fmt.Sprintf("label %s does not match file name %s", label, base))
	}
	return warnings
}
