// Package validator builds declarative validation out of small Rule values.
//
// A Rule pairs a Check func with the ValidationError reported when the check
// fails. Apply evaluates every rule and returns a ValidationErrors value, which
// implements error, or nil when all rules pass:
//
//	err := validator.Apply(
//		validator.Required("email", in.Email),
//		validator.ValidEmail("email", in.Email),
//		validator.StrongPassword("password", in.Password, validator.DefaultPasswordPolicy()),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		for field, msgs := range verrs.Map() {
//			// ...
//		}
//	}
//
// Every error carries a TranslationKey and TranslationValues so messages can
// be localised by the presentation layer.
package validator
