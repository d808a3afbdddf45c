package cascade

import "errors"

// ErrPropertyLocked means the tenant's active lease already fixed the
// property; choose a different tenant to change it.
var ErrPropertyLocked = errors.New("la propriété est déterminée par la location active du locataire")
