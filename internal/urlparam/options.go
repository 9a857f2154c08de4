package urlparam

// Revision selects how the q parameter is decoded.
type Revision int

const (
	// RevisionPlusSeparator decodes q with the V2 codec: each '+' is a
	// query separator and becomes two spaces.
	RevisionPlusSeparator Revision = iota
	// RevisionPlain decodes q like every other parameter.
	RevisionPlain
	// RevisionHiddenForm decodes q as submitted by the hidden-form page: form
	// decoding ('+' is a space) followed by the V1 codec.
	RevisionHiddenForm
)

// QueryParam is the parameter holding the search text.
const QueryParam = "q"

// Options configures Parse.
//
// AllowMissingValue: a pair without '=' yields an empty value instead of a
// *MalformedParamError.
type Options struct {
	Revision          Revision
	AllowMissingValue bool
}

// DefaultOptions are used by Parse.
var DefaultOptions = Options{
	Revision:          RevisionPlusSeparator,
	AllowMissingValue: false,
}
