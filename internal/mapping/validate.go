package mapping

import (
	"fmt"

	"bean-transformer/diagnostic"
)

// Validate performs a structural validation of a mapping file: supported
// version, parseable paths, non-empty targets and unambiguous destinations.
func Validate(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if mf.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported mapping version %q", mf.Version), "", "")
	}

	// destination field -> source path of its first mapping
	targets := map[string]string{}

	for i, fm := range mf.Entries() {
		subject := "121"
		if i >= len(mf.OneToOne) {
			subject = fmt.Sprintf("fields[%d]", i-len(mf.OneToOne))
		}

		validateFieldMapping(res, subject, fm, targets)
	}

	for _, p := range mf.Skip {
		if _, err := ParsePath(p); err != nil {
			res.AddError("invalid_skip_path", fmt.Sprintf("invalid skip path: %v", err), "skip", p)
		}
	}

	for _, fm := range mf.Entries() {
		for _, t := range fm.Target {
			if mf.Skip.Contains(t) {
				res.AddWarning("skipped_target",
					fmt.Sprintf("destination %q is mapped from %q but also skipped", t, fm.Source), "skip", t)
			}
		}
	}

	return res
}

func validateFieldMapping(res *diagnostic.Diagnostics, subject string, fm FieldMapping, targets map[string]string) {
	if fm.Source == "" {
		res.AddError("missing_source", "field mapping has no source", subject, "")
	} else if _, err := ParsePath(fm.Source); err != nil {
		res.AddError("invalid_source_path", fmt.Sprintf("invalid source path: %v", err), subject, fm.Source)
	}

	if fm.Target.IsEmpty() {
		res.AddError("missing_target", fmt.Sprintf("field mapping for %q has no target", fm.Source), subject, fm.Source)
	}

	for _, t := range fm.Target {
		tp, err := ParsePath(t)
		if err != nil {
			res.AddError("invalid_target_path", fmt.Sprintf("invalid target path: %v", err), subject, t)
			continue
		}

		if !tp.IsSimple() {
			res.AddError("target_not_a_field",
				fmt.Sprintf("target %q must be a destination field name", t), subject, t)
			continue
		}

		if prev, ok := targets[t]; ok {
			res.AddError("duplicate_target",
				fmt.Sprintf("destination %q is mapped from both %q and %q", t, prev, fm.Source), subject, t)
			continue
		}

		targets[t] = fm.Source
	}
}
