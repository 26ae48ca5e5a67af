package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Support is a content type's duplication declaration. In YAML it is one of
//
//	duplicate_as: true          # plain duplication only
//	duplicate_as: page          # transform into a single type
//	duplicate_as: [page, post]  # transform into any of these, in order
//
// false, null, an empty string or an empty list disable duplication.
type Support struct {
	Enabled bool
	Targets []string
}

// SupportSimple declares plain duplication without transform targets.
func SupportSimple() Support { return Support{Enabled: true} }

// SupportTargets declares the given transform targets. No targets disables duplication.
func SupportTargets(targets ...string) Support {
	if len(targets) == 0 {
		return Support{}
	}
	return Support{Enabled: true, Targets: targets}
}

// UnmarshalYAML decodes the bool | string | []string forms.
func (s *Support) UnmarshalYAML(node *yaml.Node) error {
	*s = Support{}

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			s.Enabled = b
			return nil
		case "!!str":
			if node.Value != "" {
				*s = SupportTargets(node.Value)
			}
			return nil
		}
	case yaml.SequenceNode:
		var targets []string
		if err := node.Decode(&targets); err != nil {
			return fmt.Errorf("duplicate_as list: %w", err)
		}
		*s = SupportTargets(targets...)
		return nil
	}

	return fmt.Errorf("line %d: duplicate_as must be a bool, a type slug or a list of type slugs", node.Line)
}

// MarshalYAML writes the shortest equivalent form.
func (s Support) MarshalYAML() (any, error) {
	switch {
	case !s.Enabled:
		return false, nil
	case len(s.Targets) == 0:
		return true, nil
	default:
		return s.Targets, nil
	}
}
