package usecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/ims-api/internal/domain/repository"
)

// NormalizeCode deja SKUs y códigos sin espacios extremos y en mayúsculas.
func NormalizeCode(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

func listFilter(search string, isActive *bool, limit, offset int) repository.ListFilter {
	return repository.ListFilter{
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
		Limit:    limit,
		Offset:   offset,
	}
}

func boolPtr(b bool) *bool { return &b }
