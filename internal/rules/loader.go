package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"promptgate/internal/coerce"
	"promptgate/internal/docschema"
	"promptgate/internal/fingerprint"
	"promptgate/internal/policy"
)

const source = "rules"

// Field names as they appear in the rules document.
const (
	FieldMinimumScore  = "minimum_compliance_score"
	FieldMaxViolations = "max_violations_allowed"
	FieldMaxWarnings   = "max_warnings_allowed"
	FieldRequiredLaws  = "required_laws"
)

// ErrEmptyDocument is returned for a rules file with no content.
var ErrEmptyDocument = errors.New("empty rules document")

// ErrNegative is returned for a negative allowance.
var ErrNegative = errors.New("must not be negative")

var rulesSchema = docschema.MustCompile("rules", `{
  "type": "object",
  "properties": {
    "minimum_compliance_score": {"type": ["number", "string"]},
    "max_violations_allowed": {"type": ["integer", "string"]},
    "max_warnings_allowed": {"type": ["integer", "string"]},
    "required_laws": {"type": "array", "items": {"type": "string"}}
  }
}`)

// Loaded is a parsed rule set together with the digest of its source document.
type Loaded struct {
	Rules  policy.RuleSet
	Digest string
	Path   string
}

// LoadFromPath reads and parses the rules file at path. JSON and YAML are
// both accepted.
func LoadFromPath(path string) (Loaded, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Loaded{}, &policy.ConfigurationError{Source: source, Path: path, Err: fmt.Errorf("rules file not found")}
		}
		return Loaded{}, &policy.ConfigurationError{Source: source, Path: path, Err: err}
	}

	loaded, err := Parse(content)
	if err != nil {
		var ce *policy.ConfigurationError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return Loaded{}, err
	}
	loaded.Path = path
	return loaded, nil
}

// Parse parses rules content. Absent fields take their most restrictive
// value: an unreachable minimum score, zero allowances and no required laws.
func Parse(content []byte) (Loaded, error) {
	asJSON, err := toJSON(content)
	if err != nil {
		return Loaded{}, err
	}
	canonical, err := fingerprint.Canonical(asJSON)
	if err != nil {
		return Loaded{}, configErr("", err)
	}

	doc, err := docschema.Decode(canonical)
	if err != nil {
		return Loaded{}, configErr("", err)
	}
	if doc == nil {
		return Loaded{}, configErr("", ErrEmptyDocument)
	}
	if err := rulesSchema.Validate(doc); err != nil {
		var v *docschema.Violation
		if errors.As(err, &v) {
			return Loaded{}, configErr(v.Field, errors.New(v.Message))
		}
		return Loaded{}, configErr("", err)
	}

	fields := doc.(map[string]interface{})
	rs, err := fromFields(fields)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{Rules: rs, Digest: fingerprint.Digest(canonical)}, nil
}

// toJSON returns content as a JSON document. Valid JSON is used as written,
// since YAML rejects some legal JSON escapes such as \/. Anything else is
// read as YAML and re-encoded.
func toJSON(content []byte) ([]byte, error) {
	if json.Valid(content) {
		return content, nil
	}

	var raw interface{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, configErr("", fmt.Errorf("invalid YAML/JSON: %w", err))
	}
	if raw == nil {
		return nil, configErr("", ErrEmptyDocument)
	}

	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, configErr("", fmt.Errorf("unsupported document structure: %w", err))
	}
	return asJSON, nil
}

func fromFields(fields map[string]interface{}) (policy.RuleSet, error) {
	var rs policy.RuleSet
	var err error

	rs.MinimumComplianceScore, err = coerce.Float(fields[FieldMinimumScore], policy.UnreachableScore)
	if err != nil {
		return policy.RuleSet{}, configErr(FieldMinimumScore, err)
	}

	if rs.MaxViolationsAllowed, err = allowance(fields, FieldMaxViolations); err != nil {
		return policy.RuleSet{}, err
	}
	if rs.MaxWarningsAllowed, err = allowance(fields, FieldMaxWarnings); err != nil {
		return policy.RuleSet{}, err
	}

	rs.RequiredLaws, err = coerce.Strings(fields[FieldRequiredLaws])
	if err != nil {
		return policy.RuleSet{}, configErr(FieldRequiredLaws, err)
	}

	return rs, nil
}

func allowance(fields map[string]interface{}, name string) (int, error) {
	n, err := coerce.Int(fields[name], 0)
	if err != nil {
		return 0, configErr(name, err)
	}
	if n < 0 {
		return 0, configErr(name, ErrNegative)
	}
	return n, nil
}

func configErr(field string, err error) *policy.ConfigurationError {
	return &policy.ConfigurationError{Source: source, Field: field, Err: err}
}
