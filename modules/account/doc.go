// Package account exposes user accounts over HTTP and stores them in MongoDB.
//
// UsersHandler serves POST /users and GET /users on top of an auth.UserService.
// MongoStorage is the auth.UserStorage backed by the "users" collection; call
// EnsureIndexes once after connecting so duplicate emails are rejected by the
// unique index as well as by the service pre-check.
package account
