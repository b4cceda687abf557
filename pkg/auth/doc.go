// Package auth holds the user domain: account creation with bcrypt password
// hashing and paginated listing.
//
// UserService normalises and validates input before touching storage. The
// storage implementation is injected through the UserStorage interface; it
// must enforce unique emails and report violations as ErrEmailAlreadyExists.
//
//	svc := auth.NewUserService(storage,
//		auth.WithLogger(log),
//		auth.WithBcryptCost(cfg.BcryptCost),
//	)
//	user, err := svc.CreateUser(ctx, auth.CreateUserInput{
//		Email:    "ann@example.com",
//		Password: "correct horse 7",
//		Name:     "Ann",
//	})
//
// Validation failures are returned as validator.ValidationErrors.
package auth
