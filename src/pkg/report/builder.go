// Package report renders the structural diffs of one run into the two
// parallel text streams the step emits: the operator-facing summary block
// and the machine-facing commit message.
package report

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/gh-nvat/release-updatez/src/pkg/jsondiff"
	"github.com/gh-nvat/release-updatez/src/pkg/models"
	"github.com/gh-nvat/release-updatez/src/pkg/scripts"
)

var logger = log.WithField("package", "report")

// DefaultSubjectPrefix leads the commit message subject line.
const DefaultSubjectPrefix = "🤖:"

// Builder renders diff reports for a change set.
type Builder struct {
	differ        *jsondiff.Differ
	subjectPrefix string
}

// NewBuilder creates a builder with the default subject prefix.
func NewBuilder() *Builder {
	return &Builder{differ: jsondiff.NewDiffer(), subjectPrefix: DefaultSubjectPrefix}
}

// WithSubjectPrefix overrides the commit subject prefix.
func (b *Builder) WithSubjectPrefix(prefix string) *Builder {
	b.subjectPrefix = prefix
	return b
}

// Build walks the change set in order and renders one section per product
// into both streams. Every diff line is also logged at info level tagged
// with the product name for audit traceability. A product with an empty
// diff still gets a header with zero detail lines; that is not an error.
func (b *Builder) Build(paths []string, oldContent, newContent models.Snapshot) *models.Report {
	products := make([]string, 0, len(paths))
	for _, path := range paths {
		products = append(products, scripts.Stem(path))
	}
	names := strings.Join(products, ", ")

	var summary, commit strings.Builder
	summary.WriteString(fmt.Sprintf("Updated %d products: %s.\n\n", len(paths), names))
	commit.WriteString(fmt.Sprintf("%s %s\n\n", b.subjectPrefix, names))

	for i, path := range paths {
		product := products[i]
		summary.WriteString(fmt.Sprintf("### %s\n\n", product))
		commit.WriteString(fmt.Sprintf("%s:\n", product))

		changes := b.differ.Diff(oldContent[path], newContent[path])
		for _, line := range jsondiff.Render(changes) {
			summary.WriteString("- " + line + "\n")
			commit.WriteString("- " + line + "\n")
			logger.WithField("product", product).Info(line)
		}

		summary.WriteString("\n")
		commit.WriteString("\n")
	}

	return &models.Report{
		Products:      products,
		Summary:       summary.String(),
		CommitMessage: commit.String(),
		HasChanges:    true,
	}
}

// NoUpdate produces the report emitted when no data files changed.
func NoUpdate() *models.Report {
	return &models.Report{Summary: "No update\n"}
}
