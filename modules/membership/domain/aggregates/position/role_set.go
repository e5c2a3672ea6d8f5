package position

import (
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/serrors"
)

// RoleSetTarget resolves what a requested role set means for a position
// of the current kind: staying put or promoting exactly one level.
type RoleSetTarget struct {
	Kind        RoleKind
	IsPromotion bool
}

// ValidateCreateRoleSet requires the requested set to be exactly the
// target kind. Creation never spans levels.
func ValidateCreateRoleSet(requested []RoleKind, target RoleKind) error {
	if len(requested) != 1 || requested[0] != target {
		return serrors.InvalidTransition("requested roles must be exactly the created kind").
			WithDetail("Target", string(target))
	}
	return nil
}

// ValidateUpdateRoleSet checks the requested role set against the fixed
// hierarchy order. Valid outcomes are "no kind change" and "promote
// exactly one level"; skipping a level or requesting two non-adjacent
// kinds is an invalid transition.
func ValidateUpdateRoleSet(requested []RoleKind, current RoleKind) (RoleSetTarget, error) {
	if len(requested) == 0 {
		return RoleSetTarget{}, serrors.InvalidTransition("requested role set is empty").
			WithDetail("Current", string(current))
	}

	seen := make(map[RoleKind]bool, len(requested))
	for _, k := range requested {
		if !k.Valid() {
			return RoleSetTarget{}, serrors.InvalidTransition("unknown role kind").
				WithDetail("Role", string(k))
		}
		if seen[k] {
			return RoleSetTarget{}, serrors.InvalidTransition("duplicate role kind in request").
				WithDetail("Role", string(k))
		}
		seen[k] = true
	}

	if len(requested) == 1 && requested[0] == current {
		return RoleSetTarget{Kind: current}, nil
	}

	next, ok := current.Next()
	if ok && len(requested) == 1 && requested[0] == next {
		return RoleSetTarget{Kind: next, IsPromotion: true}, nil
	}

	// Every remaining combination either keeps a lower role alongside
	// the new one, skips a level, or demotes.
	return RoleSetTarget{}, serrors.InvalidTransition("role set violates the hierarchy order").
		WithDetail("Current", string(current))
}
