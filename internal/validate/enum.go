package validate

import (
	"fmt"
	"strings"

	"bulkclean/internal/severity"
)

// EnumMembership grades a multi-valued field against a closed vocabulary.
// Values are joined with a delimiter; every token must be a member, and the
// NA sentinel stands for an empty selection.
type EnumMembership struct {
	Field   string
	Allowed []string
	// Delimiter separates tokens within the value; "/" when empty.
	Delimiter string
}

func (v EnumMembership) Name() string {
	return "enum-" + strings.ToLower(strings.ReplaceAll(v.Field, " ", "-"))
}

func (v EnumMembership) Validate(_ string, fields Fields, rec *severity.Record) {
	value := fields.Get(v.Field)
	if value == SentinelNA {
		return
	}
	delim := v.Delimiter
	if delim == "" {
		delim = "/"
	}

	allowed := make(map[string]bool, len(v.Allowed))
	for _, a := range v.Allowed {
		allowed[a] = true
	}
	seen := make(map[string]bool)
	for _, token := range strings.Split(value, delim) {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
			rec.Escalate(v.Field, severity.Error,
				fmt.Sprintf("%s contains an empty value.", v.Field))
		case !allowed[token]:
			rec.Escalate(v.Field, severity.Error,
				fmt.Sprintf("%s value %q is not in the allowed list.", v.Field, token))
		case seen[token]:
			rec.Escalate(v.Field, severity.Warning,
				fmt.Sprintf("%s value %q is repeated.", v.Field, token))
		}
		seen[token] = true
	}
}
