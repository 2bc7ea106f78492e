// Package validation holds the field-level input rules applied to
// user-supplied profile data. Rules are a fixed mapping from field kind to a
// pattern; everything here is a pure function with no shared mutable state.
package validation

import "regexp"

// Field enumerates the validated input kinds.
type Field string

const (
	FieldEmail      Field = "email"
	FieldName       Field = "name"
	FieldUsername   Field = "username"
	FieldPictureURL Field = "pictureUrl"
)

// patternByField maps each field kind to its rule. Username length is 3–15
// characters starting with a letter. The picture pattern here is the general
// URL form; non-OAuth hosts are additionally required to point at an image
// file (see Validate).
var patternByField = map[Field]*regexp.Regexp{
	FieldEmail:      regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`),
	FieldName:       regexp.MustCompile(`^[A-Za-z\x{00C0}-\x{017F}]+(?:[ '\x{2019}-][A-Za-z\x{00C0}-\x{017F}]+)*$`),
	FieldUsername:   regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,14}$`),
	FieldPictureURL: regexp.MustCompile(`(?i)^https?://[a-z0-9.-]+(?:/[^\s?#<>%]*)?(?:\?[^\s#<>%]*)?(?:#[^\s<>%]*)?$`),
}

// imageURLPattern is the stricter picture rule for hosts outside the OAuth
// allowlist: the path must end in an image extension.
var imageURLPattern = regexp.MustCompile(`(?i)^https?://[a-z0-9.-]+(?:/[^\s?#<>%]+)*\.(?:jpg|jpeg|png|gif|webp|bmp|svg)(?:\?[^\s#<>%]*)?(?:#[^\s<>%]*)?$`)

// oauthPictureHosts are provider-owned picture hosts whose URLs carry no file
// extension.
var oauthPictureHosts = map[string]struct{}{
	"googleusercontent.com":     {},
	"ggpht.com":                 {},
	"lh3.googleusercontent.com": {},
}
